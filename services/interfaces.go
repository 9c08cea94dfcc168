package services

import (
	"context"
	"time"

	"github.com/gcbaptista/go-catalog-search/model"
)

// Record is one item to ingest together with the document id it is stored under.
// An empty ID falls back to the item's default "<idArticle>-<colorId>" id.
type Record struct {
	ID   string     `json:"id,omitempty"`
	Item model.Item `json:"item"`
}

// RecordError reports why a single record of a batch was rejected.
type RecordError struct {
	Position   int    `json:"position"`
	DocumentID string `json:"document_id,omitempty"`
	Error      string `json:"error"`
}

// BatchResult summarizes an ingest call. Rejected records do not roll back accepted ones.
type BatchResult struct {
	Indexed int           `json:"indexed"`
	Failed  []RecordError `json:"failed"`
}

// SearchQuery is a single free-text query.
// A non-positive Limit uses the configured default.
type SearchQuery struct {
	QueryString string `json:"query"`
	Limit       int    `json:"limit,omitempty"`
}

// Hit is one ranked document. MatchedFields lists the fields that contributed to Score.
type Hit struct {
	Document      model.Document `json:"document"`
	Score         float64        `json:"score"`
	MatchedFields []string       `json:"matched_fields"`
}

// SearchResult holds the ranked hits of a query, best first.
type SearchResult struct {
	Hits    []Hit  `json:"hits"`
	Total   int    `json:"total"` // matching documents before truncation to Limit
	Limit   int    `json:"limit"`
	Took    int64  `json:"took"` // milliseconds
	QueryID string `json:"query_id"`
}

// NoResults reports that the query matched nothing. It is an outcome, not an error.
func (r SearchResult) NoResults() bool {
	return len(r.Hits) == 0
}

// Stats describes the current contents of a catalog.
type Stats struct {
	Documents  int            `json:"documents"`
	TermCounts map[string]int `json:"term_counts"`
	LastReset  time.Time      `json:"last_reset"`
}

// Ingester adds records to a catalog.
type Ingester interface {
	AddItems(ctx context.Context, records []Record) (BatchResult, error)
}

// Searcher answers free-text queries.
type Searcher interface {
	Search(ctx context.Context, query SearchQuery) (SearchResult, error)
}

// Lifecycle drops and inspects catalog contents.
type Lifecycle interface {
	Reset()
	IsEmpty() bool
}

// Catalog is the full surface of an owned catalog instance, used by the API and the CLI.
type Catalog interface {
	Ingester
	Searcher
	Lifecycle
	Get(id string) (model.Document, error)
	Remove(id string) error
	Reseed(ctx context.Context, records []Record) (BatchResult, error)
	Stats() Stats
}
