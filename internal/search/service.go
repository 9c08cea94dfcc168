package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/index"
	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/internal/logger"
	"github.com/gcbaptista/go-catalog-search/internal/metrics"
	"github.com/gcbaptista/go-catalog-search/internal/tokenizer"
	"github.com/gcbaptista/go-catalog-search/internal/typoutil"
	"github.com/gcbaptista/go-catalog-search/services"
	"github.com/gcbaptista/go-catalog-search/store"
)

// Service implements the query engine of a catalog.
// It fulfills the services.Searcher interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	settings      *config.SearchSettings
	metrics       *metrics.Metrics
}

// NewService creates a new search Service. m may be nil.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, settings *config.SearchSettings, m *metrics.Metrics) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	return &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		settings:      settings,
		metrics:       m,
	}, nil
}

// Search evaluates the query as a boolean OR of one prefix sub-query per
// structured field and one fuzzy sub-query on the text field.
//
// Each structured field that prefix-matches adds PrefixScore to a document.
// Each text term within the fuzzy bound adds 1/(1+distance). Documents are
// ranked by score descending, then id ascending, and cut to the effective limit.
// A query matching nothing returns a result whose NoResults() is true and a nil error.
func (s *Service) Search(ctx context.Context, query services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()
	queryID := uuid.New().String()
	limit := s.settings.EffectiveLimit(query.Limit)
	log := logger.FromContext(ctx).With("component", "search", "query_id", queryID)

	result, err := s.search(ctx, query, limit, log)
	took := time.Since(startTime)
	if err != nil {
		s.metrics.ObserveSearch(metrics.OutcomeError, took, 0)
		return services.SearchResult{}, err
	}

	result.QueryID = queryID
	result.Took = took.Milliseconds()

	outcome := metrics.OutcomeHit
	if result.NoResults() {
		outcome = metrics.OutcomeNoResults
	}
	s.metrics.ObserveSearch(outcome, took, len(result.Hits))
	log.Debug("query evaluated", "query", query.QueryString, "total", result.Total, "returned", len(result.Hits), "took", took)
	return result, nil
}

func (s *Service) search(ctx context.Context, query services.SearchQuery, limit int, log *slog.Logger) (services.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return services.SearchResult{}, fmt.Errorf("search aborted: %w", err)
	}

	exact, folded := tokenizer.NormalizeQuery(query.QueryString)

	s.documentStore.Mu.RLock()
	s.invertedIndex.Mu.RLock()
	defer s.documentStore.Mu.RUnlock()
	defer s.invertedIndex.Mu.RUnlock()

	fields := s.subQueryFields()
	partials := make([]partialScores, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	for i, field := range s.settings.StructuredFields {
		g.Go(func() error {
			partials[i] = s.prefixScores(field, exact)
			return nil
		})
	}
	textSlot := len(fields) - 1
	g.Go(func() error {
		scores, err := s.fuzzyScores(gctx, folded)
		partials[textSlot] = scores
		return err
	})
	if err := g.Wait(); err != nil {
		return services.SearchResult{}, fmt.Errorf("search aborted: %w", err)
	}

	ranked := mergeAndRank(fields, partials)
	total := len(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	hits := make([]services.Hit, 0, len(ranked))
	for _, candidate := range ranked {
		doc, err := s.documentStore.Get(candidate.docID)
		if err != nil {
			log.Error("index references a document missing from the store", "document_id", candidate.docID, "error", err)
			return services.SearchResult{}, internalErrors.NewIndexInconsistencyError(candidate.docID, err)
		}
		hits = append(hits, services.Hit{
			Document:      doc,
			Score:         candidate.score,
			MatchedFields: orderedFields(fields, candidate.matchedFields),
		})
	}

	return services.SearchResult{
		Hits:  hits,
		Total: total,
		Limit: limit,
	}, nil
}

// subQueryFields lists the structured fields followed by the text field,
// which is also the order partial scores are merged in.
func (s *Service) subQueryFields() []string {
	fields := make([]string, 0, len(s.settings.StructuredFields)+1)
	fields = append(fields, s.settings.StructuredFields...)
	return append(fields, s.settings.TextField)
}

// prefixScores scores every document whose value for field starts with prefix.
// A field contributes at most once per document.
func (s *Service) prefixScores(field, prefix string) partialScores {
	scores := make(partialScores)
	for _, term := range s.invertedIndex.TermsWithPrefix(field, prefix) {
		for _, posting := range s.invertedIndex.Postings(field, term) {
			scores[posting.DocID] = s.settings.PrefixScore
		}
	}
	return scores
}

// fuzzyScores scores documents by the text terms within the automatic edit
// distance of the folded query. Closer terms weigh more.
func (s *Service) fuzzyScores(ctx context.Context, folded string) (partialScores, error) {
	maxDistance := typoutil.MaxDistanceForLength(
		utf8.RuneCountInString(folded),
		s.settings.MaxLengthForExact,
		s.settings.MaxLengthForOneEdit,
	)
	matches, err := s.invertedIndex.FuzzyTerms(ctx, s.settings.TextField, folded, maxDistance, s.settings.FuzzyScanBatch)
	if err != nil {
		return nil, err
	}

	scores := make(partialScores)
	for _, match := range matches {
		weight := 1.0 / float64(1+match.Distance)
		for _, posting := range s.invertedIndex.Postings(s.settings.TextField, match.Term) {
			scores[posting.DocID] += weight
		}
	}
	return scores, nil
}

// mergeAndRank sums the partial scores in field order and sorts the
// candidates by score descending, then document id ascending.
func mergeAndRank(fields []string, partials []partialScores) []*candidateHit {
	candidates := make(map[string]*candidateHit)
	for i, partial := range partials {
		for docID, score := range partial {
			candidate, ok := candidates[docID]
			if !ok {
				candidate = &candidateHit{docID: docID, matchedFields: make(map[string]struct{})}
				candidates[docID] = candidate
			}
			candidate.score += score
			candidate.matchedFields[fields[i]] = struct{}{}
		}
	}

	ranked := make([]*candidateHit, 0, len(candidates))
	for _, candidate := range candidates {
		ranked = append(ranked, candidate)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].docID < ranked[j].docID
	})
	return ranked
}

func orderedFields(fields []string, matched map[string]struct{}) []string {
	out := make([]string, 0, len(matched))
	for _, field := range fields {
		if _, ok := matched[field]; ok {
			out = append(out, field)
		}
	}
	return out
}
