package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/models"
	"github.com/transitlabs/metrodocs/internal/query"
	"github.com/transitlabs/metrodocs/internal/services"
)

// ComplianceHandler handles CRUD and deadline queries for compliance items.
type ComplianceHandler struct {
	service *services.ComplianceService
}

// NewComplianceHandler creates a new compliance handler.
func NewComplianceHandler(db *gorm.DB) *ComplianceHandler {
	return &ComplianceHandler{service: services.NewComplianceService(db)}
}

// RegisterRoutes registers compliance routes.
func (h *ComplianceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/compliance", h.List)
	router.POST("/compliance", h.Create)
	router.GET("/compliance/stats/overview", h.Stats)
	router.GET("/compliance/deadlines/upcoming", h.Upcoming)
	router.GET("/compliance/deadlines/overdue", h.Overdue)
	router.GET("/compliance/:id", h.Get)
	router.PUT("/compliance/:id", h.Update)
	router.DELETE("/compliance/:id", h.Delete)
}

// List retrieves compliance items ordered by due date.
func (h *ComplianceHandler) List(c *gin.Context) {
	filters := services.ComplianceFilters{
		Status:     c.Query("status"),
		Department: c.Query("department"),
	}
	page, limit := query.ParsePage(c.Query("page"), c.Query("limit"))

	items, pagination, err := h.service.List(filters, page, limit)
	if err != nil {
		internalError(c, err, "list compliance items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": pagination,
	})
}

// Get retrieves a compliance item by id.
func (h *ComplianceHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Compliance item not found"})
			return
		}
		internalError(c, err, "get compliance item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateComplianceRequest is the create payload; title, authority, and
// due_date are required.
type CreateComplianceRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Authority      string  `json:"authority"`
	DueDate        string  `json:"due_date"`
	Status         string  `json:"status"`
	Progress       float64 `json:"progress"`
	AssignedTo     string  `json:"assigned_to"`
	DocumentsCount int     `json:"documents_count"`
}

// Create inserts a new compliance item with a server-generated id.
func (h *ComplianceHandler) Create(c *gin.Context) {
	var req CreateComplianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title == "" || req.Authority == "" || req.DueDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, authority, and due date are required"})
		return
	}

	due, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date"})
		return
	}

	item := models.ComplianceItem{
		Title:          req.Title,
		Description:    req.Description,
		Authority:      req.Authority,
		DueDate:        due,
		Status:         req.Status,
		Progress:       req.Progress,
		AssignedTo:     req.AssignedTo,
		DocumentsCount: req.DocumentsCount,
	}
	if item.Status == "" {
		item.Status = models.ComplianceStatusNormal
	}

	if err := h.service.Create(&item); err != nil {
		internalError(c, err, "create compliance item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Update applies a partial update and bumps last_update.
func (h *ComplianceHandler) Update(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.service.Update(c.Param("id"), updates)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Compliance item not found"})
		case errors.Is(err, services.ErrNoUpdatableFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		default:
			internalError(c, err, "update compliance item")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete removes a compliance item.
func (h *ComplianceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Compliance item not found"})
			return
		}
		internalError(c, err, "delete compliance item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Compliance item deleted successfully"})
}

// Stats returns the compliance aggregate overview.
func (h *ComplianceHandler) Stats(c *gin.Context) {
	stats, err := h.service.StatsOverview()
	if err != nil {
		internalError(c, err, "compliance stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Upcoming lists items due within the next ?days= days (default 30).
func (h *ComplianceHandler) Upcoming(c *gin.Context) {
	days := 30
	if n, err := strconv.Atoi(c.Query("days")); err == nil && n > 0 {
		days = n
	}

	items, err := h.service.Upcoming(days)
	if err != nil {
		internalError(c, err, "upcoming deadlines")
		return
	}

	c.JSON(http.StatusOK, items)
}

// Overdue lists items whose due date has passed.
func (h *ComplianceHandler) Overdue(c *gin.Context) {
	items, err := h.service.Overdue()
	if err != nil {
		internalError(c, err, "overdue deadlines")
		return
	}

	c.JSON(http.StatusOK, items)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
