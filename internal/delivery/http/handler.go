package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skifa/recipescaler/internal/domain"
)

// RecipeCoster runs one costing pass
type RecipeCoster interface {
	Compute(ctx context.Context, request *domain.CostRequest) (*domain.CostReport, error)
}

// CatalogBrowser exposes the price lists to API clients
type CatalogBrowser interface {
	Search(ctx context.Context, term string) ([]domain.CatalogEntry, error)
	Selections(ctx context.Context) (packaged []string, fresh []string, err error)
	Invalidate(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	costing RecipeCoster
	catalog CatalogBrowser
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(costing RecipeCoster, catalog CatalogBrowser, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		costing: costing,
		catalog: catalog,
		logger:  logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipescaler",
		"version": "1.0.0",
	})
}

// ComputeCost scales a recipe and prices it against the current catalogs
func (h *Handler) ComputeCost(c *gin.Context) {
	var request domain.CostRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
			"code":  "INVALID_REQUEST",
		})
		return
	}

	report, err := h.costing.Compute(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// SearchCatalog returns packaged entries whose description contains ?q=
func (h *Handler) SearchCatalog(c *gin.Context) {
	results, err := h.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   c.Query("q"),
		"count":   len(results),
		"results": results,
	})
}

// Selections lists the values a manual selection may take
func (h *Handler) Selections(c *gin.Context) {
	packaged, fresh, err := h.catalog.Selections(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packaged": packaged,
		"fresh":    fresh,
	})
}

// RefreshCatalog drops the cached snapshot so the next request reloads the price lists
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if err := h.catalog.Invalidate(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, code = http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, domain.ErrUnknownSelection):
		status, code = http.StatusUnprocessableEntity, "UNKNOWN_SELECTION"
	case errors.Is(err, domain.ErrCatalogUnavailable),
		errors.Is(err, domain.ErrCatalogNotFound),
		errors.Is(err, domain.ErrPriceFeedFailure),
		errors.Is(err, domain.ErrCacheUnavailable):
		status, code = http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "TIMEOUT"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	_ = c.Error(err)
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  code,
	})
}
