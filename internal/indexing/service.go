package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/index"
	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/internal/logger"
	"github.com/gcbaptista/go-catalog-search/internal/metrics"
	"github.com/gcbaptista/go-catalog-search/internal/tokenizer"
	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
	"github.com/gcbaptista/go-catalog-search/store"
)

// Service implements the indexing path of a catalog.
// It fulfills the services.Ingester interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	settings      *config.SearchSettings
	metrics       *metrics.Metrics
	log           *slog.Logger
}

// NewService creates a new indexing Service. m may be nil.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore, settings *config.SearchSettings, m *metrics.Metrics) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("search settings cannot be nil")
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
		settings:      settings,
		metrics:       m,
		log:           logger.WithComponent("indexing"),
	}, nil
}

// AddItems validates and indexes a batch of records.
// Invalid records are reported in the result and skipped; the rest are
// indexed and stay indexed. A document is never visible half-indexed.
// The only error returned is ctx.Err(), checked between records.
func (s *Service) AddItems(ctx context.Context, records []services.Record) (services.BatchResult, error) {
	result := services.BatchResult{Failed: make([]services.RecordError, 0)}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			s.observe(result)
			return result, err
		}

		doc, err := s.addRecord(record)
		if err != nil {
			s.log.Warn("skipping record", "position", i, "document_id", doc.ID, "error", err)
			result.Failed = append(result.Failed, services.RecordError{
				Position:   i,
				DocumentID: doc.ID,
				Error:      err.Error(),
			})
			continue
		}
		result.Indexed++
	}

	s.observe(result)
	s.log.Info("batch indexed", "indexed", result.Indexed, "rejected", len(result.Failed))
	return result, nil
}

func (s *Service) observe(result services.BatchResult) {
	s.documentStore.Mu.RLock()
	documents := s.documentStore.Len()
	s.documentStore.Mu.RUnlock()
	s.metrics.ObserveIngest(result.Indexed, len(result.Failed), documents)
}

// addRecord validates one record and indexes it under both write locks.
// The returned document carries the resolved id even on failure.
func (s *Service) addRecord(record services.Record) (model.Document, error) {
	id := record.ID
	if id == "" {
		id = record.Item.DefaultID()
	}
	doc := model.Document{ID: id}

	if err := validateRecord(id, record.Item); err != nil {
		return doc, err
	}
	doc = model.NewDocument(strings.TrimSpace(id), record.Item)

	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	if s.documentStore.Has(doc.ID) {
		return doc, internalErrors.NewValidationError(doc.ID, "id", "a document with this id is already indexed")
	}

	for field, tokens := range s.documentTokens(doc) {
		s.invertedIndex.Index(doc.ID, field, tokens)
	}
	s.documentStore.Put(doc)
	return doc, nil
}

// documentTokens returns the terms a document contributes to each indexed field.
// Structured fields contribute their whole textual form as a single term.
func (s *Service) documentTokens(doc model.Document) map[string][]string {
	tokens := make(map[string][]string, len(s.settings.StructuredFields)+1)
	for _, field := range s.settings.StructuredFields {
		if text := doc.Text[field]; text != "" {
			tokens[field] = []string{text}
		}
	}
	if value, ok := doc.Item.Value(s.settings.TextField); ok {
		if text, isString := value.(string); isString {
			tokens[s.settings.TextField] = tokenizer.Normalize(text)
		}
	}
	return tokens
}

func validateRecord(id string, item model.Item) error {
	if strings.TrimSpace(id) == "" {
		return internalErrors.NewValidationError(id, "id", "must not be blank")
	}
	if strings.TrimSpace(item.Description) == "" {
		return internalErrors.NewValidationError(id, model.FieldDescription, "must not be blank")
	}
	price := float64(item.Price)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return internalErrors.NewValidationError(id, model.FieldPrice, "must be a finite number")
	}
	if price < 0 {
		return internalErrors.NewValidationError(id, model.FieldPrice, "must not be negative")
	}
	for _, field := range []string{model.FieldIDArticle, model.FieldColorID, model.FieldModel, model.FieldQuality} {
		value, _ := item.Value(field)
		if n, ok := value.(int); ok && n < 0 {
			return internalErrors.NewValidationError(id, field, "must not be negative")
		}
	}
	return nil
}

// RemoveDocument deletes a document and all of its postings.
func (s *Service) RemoveDocument(id string) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	stored, err := s.documentStore.Get(id)
	if err != nil {
		return err
	}
	// Postings are rebuilt from the typed item, the same way AddItems produced them.
	doc := model.NewDocument(stored.ID, stored.Item)
	for field, tokens := range s.documentTokens(doc) {
		s.invertedIndex.Remove(doc.ID, field, tokens)
	}
	s.documentStore.Delete(id)
	s.metrics.SetDocuments(s.documentStore.Len())
	return nil
}

// Reset drops every document and posting.
func (s *Service) Reset() {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	s.documentStore.Reset()
	s.invertedIndex.Reset()
	s.metrics.SetDocuments(0)
	s.log.Info("catalog reset")
}

// IsEmpty reports whether no document is indexed.
func (s *Service) IsEmpty() bool {
	s.documentStore.Mu.RLock()
	defer s.documentStore.Mu.RUnlock()
	return s.documentStore.Len() == 0
}
