package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/index"
	"github.com/gcbaptista/go-catalog-search/internal/indexing"
	"github.com/gcbaptista/go-catalog-search/internal/metrics"
	"github.com/gcbaptista/go-catalog-search/internal/search"
	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
	"github.com/gcbaptista/go-catalog-search/store"
)

// Instance holds all components and services of one owned catalog.
// It implements the services.Catalog interface.
type Instance struct {
	settings      *config.SearchSettings
	InvertedIndex *index.InvertedIndex
	DocumentStore *store.DocumentStore
	indexer       *indexing.Service
	searcher      *search.Service

	mu        sync.RWMutex
	lastReset time.Time
}

// NewInstance creates an empty catalog. m may be nil.
func NewInstance(settings config.SearchSettings, m *metrics.Metrics) (*Instance, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid search settings: %s", strings.Join(problems, "; "))
	}

	docStore := store.NewDocumentStore()
	invIndex := index.NewInvertedIndex()

	indexerService, err := indexing.NewService(invIndex, docStore, &settings, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer service: %w", err)
	}
	searchService, err := search.NewService(invIndex, docStore, &settings, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	return &Instance{
		settings:      &settings,
		InvertedIndex: invIndex,
		DocumentStore: docStore,
		indexer:       indexerService,
		searcher:      searchService,
		lastReset:     time.Now(),
	}, nil
}

// AddItems delegates to the underlying indexing service.
func (i *Instance) AddItems(ctx context.Context, records []services.Record) (services.BatchResult, error) {
	return i.indexer.AddItems(ctx, records)
}

// Search delegates to the underlying search service.
func (i *Instance) Search(ctx context.Context, query services.SearchQuery) (services.SearchResult, error) {
	return i.searcher.Search(ctx, query)
}

// Get returns a stored document by id.
func (i *Instance) Get(id string) (model.Document, error) {
	i.DocumentStore.Mu.RLock()
	defer i.DocumentStore.Mu.RUnlock()
	return i.DocumentStore.Get(id)
}

// Remove deletes one document and its postings.
func (i *Instance) Remove(id string) error {
	return i.indexer.RemoveDocument(id)
}

// Reset drops all indexed content.
func (i *Instance) Reset() {
	i.indexer.Reset()
	i.mu.Lock()
	i.lastReset = time.Now()
	i.mu.Unlock()
}

// IsEmpty reports whether the catalog holds no documents.
func (i *Instance) IsEmpty() bool {
	return i.indexer.IsEmpty()
}

// Reseed resets the catalog and ingests records, so repeated seeding always
// ends in the same state.
func (i *Instance) Reseed(ctx context.Context, records []services.Record) (services.BatchResult, error) {
	i.Reset()
	return i.AddItems(ctx, records)
}

// Stats reports the document count and the dictionary size of every field.
func (i *Instance) Stats() services.Stats {
	i.DocumentStore.Mu.RLock()
	i.InvertedIndex.Mu.RLock()
	stats := services.Stats{
		Documents:  i.DocumentStore.Len(),
		TermCounts: make(map[string]int),
	}
	for _, field := range i.InvertedIndex.Fields() {
		stats.TermCounts[field] = i.InvertedIndex.TermCount(field)
	}
	i.InvertedIndex.Mu.RUnlock()
	i.DocumentStore.Mu.RUnlock()

	i.mu.RLock()
	stats.LastReset = i.lastReset
	i.mu.RUnlock()
	return stats
}

// Settings returns the search settings of this catalog.
func (i *Instance) Settings() config.SearchSettings {
	return *i.settings
}
