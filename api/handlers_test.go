package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-catalog-search/internal/engine"
	"github.com/gcbaptista/go-catalog-search/internal/metrics"
	testutil "github.com/gcbaptista/go-catalog-search/internal/testing"
	"github.com/gcbaptista/go-catalog-search/services"
)

func setupTestCatalog(t *testing.T) (*gin.Engine, *engine.Instance) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	instance := testutil.CreateSeededCatalog(t, m)
	return NewRouter(instance, m, 1<<20), instance
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSearch(t *testing.T, w *httptest.ResponseRecorder) SearchResponse {
	t.Helper()
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr), w.Body.String())
	return apiErr
}

func TestHealthAndStats(t *testing.T) {
	router, _ := setupTestCatalog(t)

	w := doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"empty":false`)

	w = doRequest(router, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats services.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 11, stats.Documents)
	assert.Equal(t, 12, stats.TermCounts["description"])
}

func TestSearchHandler(t *testing.T) {
	router, _ := setupTestCatalog(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantIDs    []string
		wantNone   bool
		wantCode   ErrorCode
	}{
		{
			name:       "roja ranks 1-1 first",
			body:       SearchRequest{Query: "roja"},
			wantStatus: http.StatusOK,
			wantIDs:    []string{"1-1", "9-9"},
		},
		{
			name:       "prefix on idArticle",
			body:       SearchRequest{Query: "9090"},
			wantStatus: http.StatusOK,
			wantIDs:    []string{"9090-3429"},
		},
		{
			name:       "no results",
			body:       SearchRequest{Query: "xyz123nonexistent"},
			wantStatus: http.StatusOK,
			wantIDs:    []string{},
			wantNone:   true,
		},
		{
			name:       "blank query rejected",
			body:       SearchRequest{Query: "   "},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidationFailed,
		},
		{
			name:       "negative limit rejected",
			body:       SearchRequest{Query: "roja", Limit: -1},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidationFailed,
		},
		{
			name:       "invalid JSON",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeInvalidQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/_search", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
				return
			}

			resp := decodeSearch(t, w)
			assert.Equal(t, tt.wantIDs, testutil.HitIDs(resp.SearchResult))
			assert.Equal(t, tt.wantNone, resp.NoResults)
			assert.NotEmpty(t, resp.QueryID)
		})
	}
}

func TestSearchQueryHandler(t *testing.T) {
	router, _ := setupTestCatalog(t)

	t.Run("limit parameter", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/_search?q=camiseta&limit=20", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeSearch(t, w)
		assert.Len(t, resp.Hits, 11)
		assert.Equal(t, 11, resp.Total)
	})

	t.Run("default limit", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/_search?q=camiseta", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeSearch(t, w)
		assert.Len(t, resp.Hits, 10)
		assert.Equal(t, 10, resp.Limit)
	})

	t.Run("missing query", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/_search", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non numeric limit", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/_search?q=roja&limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrorCodeInvalidQuery, decodeError(t, w).Code)
	})
}

func TestSearchHandler_IndexInconsistency(t *testing.T) {
	router, instance := setupTestCatalog(t)

	instance.DocumentStore.Mu.Lock()
	instance.DocumentStore.Delete("1-1")
	instance.DocumentStore.Mu.Unlock()

	w := doRequest(router, http.MethodPost, "/_search", SearchRequest{Query: "roja"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ErrorCodeIndexInconsistent, decodeError(t, w).Code)
}

func TestAddItemsHandler(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        interface{}
		wantStatus  int
		wantCode    ErrorCode
		wantDocs    int
		wantIndexed int
	}{
		{
			name:        "single object",
			path:        "/items",
			body:        `{"idArticle": 20, "colorId": 1, "model": 3, "quality": 1, "price": 15.5, "description": "Pantalón negro"}`,
			wantStatus:  http.StatusOK,
			wantDocs:    12,
			wantIndexed: 1,
		},
		{
			name:        "array with explicit id",
			path:        "/items",
			body:        `[{"id": "p-1", "idArticle": 20, "colorId": 1, "price": 1, "description": "Pantalón"}, {"idArticle": 21, "colorId": 2, "price": 2, "description": "Falda"}]`,
			wantStatus:  http.StatusOK,
			wantDocs:    13,
			wantIndexed: 2,
		},
		{
			name:        "partial batch",
			path:        "/items",
			body:        `[{"idArticle": 1, "colorId": 1, "price": 1, "description": "duplicate"}, {"idArticle": 30, "colorId": 1, "price": 1, "description": "Gorra"}]`,
			wantStatus:  http.StatusOK,
			wantDocs:    12,
			wantIndexed: 1,
		},
		{
			name:        "reset replaces the catalog",
			path:        "/items?reset=true",
			body:        `[{"idArticle": 1, "colorId": 1, "price": 1, "description": "Camiseta roja"}]`,
			wantStatus:  http.StatusOK,
			wantDocs:    1,
			wantIndexed: 1,
		},
		{
			name:       "every record invalid",
			path:       "/items",
			body:       `[{"idArticle": 40, "colorId": 1, "price": -1, "description": "Gorra"}]`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidationFailed,
			wantDocs:   11,
		},
		{
			name:       "empty array",
			path:       "/items",
			body:       `[]`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidationFailed,
			wantDocs:   11,
		},
		{
			name:       "invalid JSON",
			path:       "/items",
			body:       `{"idArticle": `,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeInvalidJSON,
			wantDocs:   11,
		},
		{
			name:       "scalar body",
			path:       "/items",
			body:       `42`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeInvalidJSON,
			wantDocs:   11,
		},
		{
			name:       "array with a wrongly typed field",
			path:       "/items",
			body:       `[{"idArticle": "twenty", "colorId": 1, "price": 1, "description": "Gorra"}]`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeInvalidJSON,
			wantDocs:   11,
		},
		{
			name:       "empty body",
			path:       "/items",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeInvalidJSON,
			wantDocs:   11,
		},
		{
			name:       "invalid reset flag",
			path:       "/items?reset=maybe",
			body:       `{"idArticle": 20, "colorId": 1, "price": 1, "description": "Gorra"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeInvalidRequest,
			wantDocs:   11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, instance := setupTestCatalog(t)

			w := doRequest(router, http.MethodPut, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Indexed int                   `json:"indexed"`
					Failed  []services.RecordError `json:"failed"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantIndexed, resp.Indexed)
			} else {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
			}
			assert.Equal(t, tt.wantDocs, instance.Stats().Documents)
		})
	}
}

func TestAddedItemsAreSearchable(t *testing.T) {
	router, _ := setupTestCatalog(t)

	w := doRequest(router, http.MethodPut, "/items", `{"id": "p-1", "idArticle": 20, "colorId": 1, "price": 15.5, "description": "Pantalón negro"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/_search?q=pantalon", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeSearch(t, w)
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "p-1", resp.Hits[0].Document.ID)
	assert.Equal(t, float32(15.5), resp.Hits[0].Document.Item.Price)
}

func TestItemHandlers(t *testing.T) {
	router, instance := setupTestCatalog(t)

	w := doRequest(router, http.MethodGet, "/items/9090-3429", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description":"Camiseta tyron"`)

	w = doRequest(router, http.MethodGet, "/items/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorCodeDocumentNotFound, decodeError(t, w).Code)

	w = doRequest(router, http.MethodDelete, "/items/1-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodDelete, "/items/1-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodDelete, "/items", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, instance.IsEmpty())

	w = doRequest(router, http.MethodGet, "/_search?q=camiseta", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeSearch(t, w).NoResults)
}

func TestRequestIDMiddleware(t *testing.T) {
	router, _ := setupTestCatalog(t)

	t.Run("generated", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/health", nil)
		assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	})

	t.Run("propagated into error bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items/missing", nil)
		req.Header.Set(requestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
		assert.Equal(t, "req-123", decodeError(t, w).RequestID)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestCatalog(t)

	doRequest(router, http.MethodGet, "/_search?q=roja", nil)
	doRequest(router, http.MethodGet, "/_search?q=xyz123nonexistent", nil)

	w := doRequest(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `catalog_search_queries_total{result_type="hit"} 1`)
	assert.Contains(t, body, `catalog_search_queries_total{result_type="zero_result"} 1`)
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",path="/_search",status="200"} 2`), body)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupTestCatalog(t)
	w := doRequest(router, http.MethodOptions, "/_search", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
