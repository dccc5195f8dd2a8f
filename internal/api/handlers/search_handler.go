package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/api/middleware"
	"github.com/transitlabs/metrodocs/internal/query"
	"github.com/transitlabs/metrodocs/internal/services"
)

// SearchHandler handles ranked document search and search analytics.
type SearchHandler struct {
	service *services.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{service: services.NewSearchService(db)}
}

// RegisterRoutes registers search routes.
func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/search", h.Search)
	router.GET("/search/suggestions", h.Suggestions)
	router.GET("/search/analytics/overview", h.Analytics)
}

// Search runs a ranked free-text search with optional filters.
func (h *SearchHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	page, limit := query.ParsePage(c.Query("page"), c.Query("limit"))
	params := services.SearchParams{
		Query:      q,
		Department: c.Query("department"),
		Type:       c.Query("type"),
		Language:   c.Query("language"),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
		Page:       page,
		Limit:      limit,
		UserID:     middleware.UserID(c),
	}

	results, pagination, elapsed, err := h.service.Search(params)
	if err != nil {
		internalError(c, err, "search")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       q,
		"results":     results,
		"total":       pagination.Total,
		"pagination":  pagination,
		"search_time": elapsed,
	})
}

// Suggestions returns typeahead entries for the given prefix.
func (h *SearchHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.service.Suggestions(c.Query("q"))
	if err != nil {
		internalError(c, err, "search suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Analytics returns the 30-day search activity overview.
func (h *SearchHandler) Analytics(c *gin.Context) {
	overview, popular, err := h.service.AnalyticsOverview()
	if err != nil {
		internalError(c, err, "search analytics")
		return
	}

	if popular == nil {
		popular = []services.PopularQuery{}
	}
	c.JSON(http.StatusOK, gin.H{
		"overview":        overview,
		"popular_queries": popular,
	})
}
