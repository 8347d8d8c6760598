package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisonService *usecase.ComparisonService
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisonService *usecase.ComparisonService) *Handler {
	return &Handler{comparisonService: comparisonService}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// MatchProducts ranks an explicit candidate list against a source product.
// An empty result list is a normal 200 response: the UI renders its own
// "no matches found" state.
func (h *Handler) MatchProducts(c *gin.Context) {
	var req domain.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	results := h.comparisonService.MatchCandidates(req.Source, req.Candidates)
	if results == nil {
		results = []domain.MatchResult{}
	}

	c.JSON(http.StatusOK, domain.MatchResponse{
		Results: results,
		Count:   len(results),
	})
}

// CompareProduct fetches candidates for the query from the requested sites
// (through the cache and feed collaborators) and returns the ranked matches.
func (h *Handler) CompareProduct(c *gin.Context) {
	var req domain.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	results, err := h.comparisonService.Compare(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrFeedFailure):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if results == nil {
		results = []domain.MatchResult{}
	}

	c.JSON(http.StatusOK, domain.MatchResponse{
		Results: results,
		Count:   len(results),
	})
}
