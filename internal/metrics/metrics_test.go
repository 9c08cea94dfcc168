package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSearch(t *testing.T) {
	m := New()

	m.ObserveSearch(OutcomeHit, time.Millisecond, 3)
	m.ObserveSearch(OutcomeHit, time.Millisecond, 1)
	m.ObserveSearch(OutcomeNoResults, time.Millisecond, 0)
	m.ObserveSearch(OutcomeError, time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(OutcomeHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(OutcomeNoResults)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(OutcomeError)))
}

func TestObserveIngest(t *testing.T) {
	m := New()

	m.ObserveIngest(10, 2, 10)
	m.ObserveIngest(1, 0, 11)

	assert.Equal(t, 11.0, testutil.ToFloat64(m.DocsIndexedTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocsRejectedTotal))
	assert.Equal(t, 11.0, testutil.ToFloat64(m.CatalogDocuments))

	m.SetDocuments(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CatalogDocuments))
}

func TestIndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch(OutcomeHit, time.Millisecond, 1)
		m.ObserveIngest(1, 1, 1)
		m.SetDocuments(1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveIngest(11, 0, 11)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog_docs_indexed_total 11")
	assert.Contains(t, rec.Body.String(), "catalog_documents 11")
}
