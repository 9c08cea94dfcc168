// Package metrics defines the Prometheus collectors of the catalog and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes used as the result_type label.
const (
	OutcomeHit       = "hit"
	OutcomeNoResults = "zero_result"
	OutcomeError     = "error"
)

// Metrics holds all Prometheus collectors of a catalog process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        prometheus.Histogram
	SearchResultsCount   prometheus.Histogram
	DocsIndexedTotal     prometheus.Counter
	DocsRejectedTotal    prometheus.Counter
	CatalogDocuments     prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on a private registry, so
// several catalogs (or tests) can coexist in one process.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := newMetrics()
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.DocsIndexedTotal,
		m.DocsRejectedTotal,
		m.CatalogDocuments,
	)
	m.gatherer = registry
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_docs_indexed_total",
				Help: "Total documents indexed.",
			},
		),
		DocsRejectedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_docs_rejected_total",
				Help: "Total records rejected by validation.",
			},
		),
		CatalogDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_documents",
				Help: "Number of documents currently in the catalog.",
			},
		),
	}
}

// ObserveSearch records one finished query.
func (m *Metrics) ObserveSearch(outcome string, took time.Duration, results int) {
	if m == nil {
		return
	}
	m.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	m.SearchLatency.Observe(took.Seconds())
	if outcome != OutcomeError {
		m.SearchResultsCount.Observe(float64(results))
	}
}

// ObserveIngest records the outcome of an ingest batch and the resulting catalog size.
func (m *Metrics) ObserveIngest(indexed, rejected, documents int) {
	if m == nil {
		return
	}
	m.DocsIndexedTotal.Add(float64(indexed))
	m.DocsRejectedTotal.Add(float64(rejected))
	m.CatalogDocuments.Set(float64(documents))
}

// SetDocuments sets the catalog size gauge.
func (m *Metrics) SetDocuments(documents int) {
	if m == nil {
		return
	}
	m.CatalogDocuments.Set(float64(documents))
}

// Gatherer exposes the registry backing m.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil || m.gatherer == nil {
		return prometheus.NewRegistry()
	}
	return m.gatherer
}

// Handler returns the Prometheus scrape HTTP handler for m's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{})
}
