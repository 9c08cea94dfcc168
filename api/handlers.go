package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-catalog-search/internal/metrics"
	"github.com/gcbaptista/go-catalog-search/services"
)

// API holds dependencies for API handlers, primarily the owned catalog.
type API struct {
	catalog services.Catalog
	metrics *metrics.Metrics
}

// NewAPI creates a new API handler structure. m may be nil.
func NewAPI(catalog services.Catalog, m *metrics.Metrics) *API {
	return &API{
		catalog: catalog,
		metrics: m,
	}
}

// SetupRoutes defines all the API routes of the catalog.
// The /metrics route is only registered when m is not nil.
func SetupRoutes(router *gin.Engine, catalog services.Catalog, m *metrics.Metrics) {
	apiHandler := NewAPI(catalog, m)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/stats", apiHandler.StatsHandler)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	itemRoutes := router.Group("/items")
	{
		itemRoutes.PUT("", apiHandler.AddItemsHandler)                  // Add items, ?reset=true replaces the catalog
		itemRoutes.DELETE("", apiHandler.DeleteAllItemsHandler)         // Drop every item
		itemRoutes.GET("/:documentId", apiHandler.GetItemHandler)       // Get specific item
		itemRoutes.DELETE("/:documentId", apiHandler.DeleteItemHandler) // Delete specific item
	}

	router.POST("/_search", apiHandler.SearchHandler)
	router.GET("/_search", apiHandler.SearchQueryHandler)
}

// NewRouter builds a gin engine with the standard middleware chain and all routes.
func NewRouter(catalog services.Catalog, m *metrics.Metrics, maxBodyBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware())
	router.Use(MetricsMiddleware(m))
	router.Use(CORSMiddleware())
	if maxBodyBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(maxBodyBytes))
	}
	SetupRoutes(router, catalog, m)
	return router
}

// HealthCheckHandler reports liveness and whether the catalog holds data.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"empty":  api.catalog.IsEmpty(),
	})
}

// StatsHandler returns document and dictionary counts.
func (api *API) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.catalog.Stats())
}
