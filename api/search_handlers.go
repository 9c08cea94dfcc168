package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/internal/logger"
	"github.com/gcbaptista/go-catalog-search/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SearchResponse is a search result with an explicit no-results flag.
type SearchResponse struct {
	services.SearchResult
	NoResults bool `json:"no_results"`
}

// SearchHandler handles search requests.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}
	api.search(c, req)
}

// SearchQueryHandler handles GET /_search?q=...&limit=...
func (api *API) SearchQueryHandler(c *gin.Context) {
	req := SearchRequest{Query: c.Query("q")}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid value for 'limit': "+v)
			return
		}
		req.Limit = limit
	}
	api.search(c, req)
}

func (api *API) search(c *gin.Context, req SearchRequest) {
	if result := ValidateSearchRequest(req.Query, req.Limit); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := api.catalog.Search(c.Request.Context(), services.SearchQuery{
		QueryString: req.Query,
		Limit:       req.Limit,
	})
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("search failed", "component", "api", "query", req.Query, "error", err)
		if errors.Is(err, internalErrors.ErrIndexInconsistent) {
			SendIndexInconsistencyError(c, err)
			return
		}
		SendSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{SearchResult: results, NoResults: results.NoResults()})
}
