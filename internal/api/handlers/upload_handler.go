package handlers

import (
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/transitlabs/metrodocs/internal/models"
	"github.com/transitlabs/metrodocs/internal/services"
)

// maxBatchFiles caps one multipart batch.
const maxBatchFiles = 10

// UploadHandler accepts multipart uploads and hands them to the upload service.
type UploadHandler struct {
	service   *services.UploadService
	uploadDir string
}

// NewUploadHandler creates a new upload handler storing files under uploadDir.
func NewUploadHandler(service *services.UploadService, uploadDir string) *UploadHandler {
	return &UploadHandler{service: service, uploadDir: uploadDir}
}

// RegisterRoutes registers upload routes.
func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/upload/single", h.Single)
	router.POST("/upload/multiple", h.Multiple)
	router.GET("/upload/stats", h.Stats)
}

func metaFrom(c *gin.Context) services.UploadMeta {
	return services.UploadMeta{
		Department: c.PostForm("department"),
		Type:       c.PostForm("type"),
		Author:     c.PostForm("author"),
	}
}

// storedName builds a collision-free filename preserving the extension.
func storedName(original string) string {
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), filepath.Ext(original))
}

func (h *UploadHandler) saveOne(c *gin.Context, file *multipart.FileHeader) (*models.Document, error) {
	if err := h.service.Validate(file.Header.Get("Content-Type"), file.Size); err != nil {
		return nil, err
	}

	dst := filepath.Join(h.uploadDir, storedName(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return h.service.Ingest(file.Filename, dst, file.Size, metaFrom(c))
}

// Single accepts one file under the "file" form field.
func (h *UploadHandler) Single(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	doc, err := h.saveOne(c, file)
	if err != nil {
		switch err {
		case services.ErrFileTooLarge, services.ErrInvalidFileType:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			internalError(c, err, "single upload")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "File uploaded successfully",
		"document": doc,
	})
}

// Multiple accepts up to ten files under the "files" form field.
func (h *UploadHandler) Multiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}
	if len(files) > maxBatchFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("At most %d files per batch", maxBatchFiles)})
		return
	}

	// Validate the whole batch up front: one bad file rejects the batch
	// before anything is stored or ingested.
	for _, file := range files {
		if err := h.service.Validate(file.Header.Get("Content-Type"), file.Size); err != nil {
			switch err {
			case services.ErrFileTooLarge, services.ErrInvalidFileType:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				internalError(c, err, "multiple upload")
			}
			return
		}
	}

	docs := make([]*models.Document, 0, len(files))
	for _, file := range files {
		doc, err := h.saveOne(c, file)
		if err != nil {
			internalError(c, err, "multiple upload")
			return
		}
		docs = append(docs, doc)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   fmt.Sprintf("%d files uploaded successfully", len(docs)),
		"documents": docs,
	})
}

// Stats returns the last day of upload activity.
func (h *UploadHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		internalError(c, err, "upload stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
