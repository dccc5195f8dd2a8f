package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/models"
	"github.com/transitlabs/metrodocs/internal/query"
	"github.com/transitlabs/metrodocs/internal/services"
)

// DocumentHandler handles CRUD operations for documents.
type DocumentHandler struct {
	service *services.DocumentService
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(db *gorm.DB) *DocumentHandler {
	return &DocumentHandler{service: services.NewDocumentService(db)}
}

// RegisterRoutes registers document routes.
func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/documents", h.List)
	router.POST("/documents", h.Create)
	router.GET("/documents/stats/overview", h.Stats)
	router.GET("/documents/:id", h.Get)
	router.PUT("/documents/:id", h.Update)
	router.DELETE("/documents/:id", h.Delete)
}

// List retrieves documents with optional filters and pagination.
func (h *DocumentHandler) List(c *gin.Context) {
	filters := services.DocumentFilters{
		Department: c.Query("department"),
		Priority:   c.Query("priority"),
		Status:     c.Query("status"),
		Type:       c.Query("type"),
		Search:     c.Query("search"),
	}
	page, limit := query.ParsePage(c.Query("page"), c.Query("limit"))

	docs, pagination, err := h.service.List(filters, page, limit)
	if err != nil {
		internalError(c, err, "list documents")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents":  docs,
		"pagination": pagination,
	})
}

// Get retrieves a document by id.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		internalError(c, err, "get document")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// CreateDocumentRequest is the create payload; title, department, type, and
// author are required.
type CreateDocumentRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Summary    string   `json:"summary"`
	Department string   `json:"department"`
	Type       string   `json:"type"`
	Author     string   `json:"author"`
	Priority   string   `json:"priority"`
	Status     string   `json:"status"`
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
	Language   string   `json:"language"`
	FilePath   string   `json:"file_path"`
	FileSize   int64    `json:"file_size"`
}

// Create inserts a new document with a server-generated id.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title == "" || req.Department == "" || req.Type == "" || req.Author == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, department, type, and author are required"})
		return
	}

	doc := models.Document{
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		Department: req.Department,
		Type:       req.Type,
		Author:     req.Author,
		Priority:   req.Priority,
		Status:     req.Status,
		Confidence: req.Confidence,
		Language:   req.Language,
		FilePath:   req.FilePath,
		FileSize:   req.FileSize,
	}
	if doc.Priority == "" {
		doc.Priority = models.PriorityMedium
	}
	if doc.Status == "" {
		doc.Status = models.StatusActive
	}
	if doc.Language == "" {
		doc.Language = "English"
	}
	doc.SetTags(req.Tags)

	if err := h.service.Create(&doc); err != nil {
		internalError(c, err, "create document")
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// Update applies a partial update from the allow-listed request body fields.
func (h *DocumentHandler) Update(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.Update(c.Param("id"), updates)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		case errors.Is(err, services.ErrNoUpdatableFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		default:
			internalError(c, err, "update document")
		}
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Delete removes a document.
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		internalError(c, err, "delete document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// Stats returns the document aggregate overview.
func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.service.StatsOverview()
	if err != nil {
		internalError(c, err, "document stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
