package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/services"
)

// AnalyticsHandler serves the analytics and dashboard aggregates.
type AnalyticsHandler struct {
	service *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{service: services.NewAnalyticsService(db)}
}

// RegisterRoutes registers analytics and dashboard routes.
func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/analytics/dashboard", h.Dashboard)
	router.GET("/analytics/departments", h.Departments)
	router.GET("/dashboard/overview", h.Overview)
	router.GET("/dashboard/quick-actions", h.QuickActions)
}

// Dashboard returns the full analytics payload.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	out, err := h.service.Dashboard()
	if err != nil {
		internalError(c, err, "analytics dashboard")
		return
	}

	c.JSON(http.StatusOK, out)
}

// Departments returns the processed-volume rows recorded by the sweeper.
func (h *AnalyticsHandler) Departments(c *gin.Context) {
	rows, err := h.service.Departments()
	if err != nil {
		internalError(c, err, "department analytics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"departments": rows})
}

// Overview returns the dashboard landing payload.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	out, err := h.service.Overview()
	if err != nil {
		internalError(c, err, "dashboard overview")
		return
	}

	c.JSON(http.StatusOK, out)
}

// QuickActions returns queue depth and urgency counters.
func (h *AnalyticsHandler) QuickActions(c *gin.Context) {
	out, err := h.service.QuickActions()
	if err != nil {
		internalError(c, err, "quick actions")
		return
	}

	c.JSON(http.StatusOK, out)
}
