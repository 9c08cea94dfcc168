// Package testing provides utilities and helpers for testing the catalog.
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/internal/catalog"
	"github.com/gcbaptista/go-catalog-search/internal/engine"
	"github.com/gcbaptista/go-catalog-search/internal/metrics"
	"github.com/gcbaptista/go-catalog-search/services"
)

// CreateTestCatalog creates an empty catalog with default settings. m may be nil.
func CreateTestCatalog(t *testing.T, m *metrics.Metrics) *engine.Instance {
	t.Helper()
	instance, err := engine.NewInstance(config.DefaultSearchSettings(), m)
	require.NoError(t, err, "Failed to create test catalog")
	return instance
}

// CreateSeededCatalog creates a catalog holding the 11 sample items.
func CreateSeededCatalog(t *testing.T, m *metrics.Metrics) *engine.Instance {
	t.Helper()
	instance := CreateTestCatalog(t, m)
	result, err := catalog.Seed(context.Background(), instance)
	require.NoError(t, err, "Failed to seed test catalog")
	require.Equal(t, 11, result.Indexed)
	return instance
}

// HitIDs returns the document ids of a result, in rank order.
func HitIDs(result services.SearchResult) []string {
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.Document.ID)
	}
	return ids
}

// AssertRankedFirst checks that the query ranks documentID first.
func AssertRankedFirst(t *testing.T, searcher services.Searcher, query, documentID string) {
	t.Helper()
	result, err := searcher.Search(context.Background(), services.SearchQuery{QueryString: query})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits, "query %q returned no hits", query)
	assert.Equal(t, documentID, result.Hits[0].Document.ID, "query %q", query)
}
