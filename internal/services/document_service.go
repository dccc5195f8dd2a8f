package services

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/models"
	"github.com/transitlabs/metrodocs/internal/query"
)

// ErrNoUpdatableFields is returned when a partial update carries no column
// from the allow-list.
var ErrNoUpdatableFields = errors.New("no valid fields to update")

// documentColumns is the allow-list for partial updates. Anything else in
// the request body is ignored rather than written blindly to the row.
var documentColumns = map[string]bool{
	"title":      true,
	"content":    true,
	"summary":    true,
	"department": true,
	"type":       true,
	"author":     true,
	"priority":   true,
	"status":     true,
	"language":   true,
	"file_path":  true,
	"file_size":  true,
	"confidence": true,
	"tags":       true,
}

// DocumentFilters are the optional list filters; sentinel values such as
// "All Departments" disable the corresponding filter.
type DocumentFilters struct {
	Department string
	Priority   string
	Status     string
	Type       string
	Search     string
}

// DocumentStats is the aggregate shape for the stats overview endpoint.
type DocumentStats struct {
	TotalDocuments   int64   `json:"total_documents"`
	ActiveDocuments  int64   `json:"active_documents"`
	HighPriority     int64   `json:"high_priority"`
	AvgConfidence    float64 `json:"avg_confidence"`
	DepartmentsCount int64   `json:"departments_count"`
}

// DocumentService owns CRUD and aggregate queries for documents.
type DocumentService struct {
	db *gorm.DB
}

// NewDocumentService creates a document service bound to the given database.
func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{db: db}
}

func (s *DocumentService) filtered(f DocumentFilters) *gorm.DB {
	tx := s.db.Model(&models.Document{}).Scopes(
		query.Equals("department", f.Department),
		query.Equals("priority", f.Priority),
		query.Equals("status", f.Status),
		query.Equals("type", f.Type),
	)
	if f.Search != "" {
		tx = tx.Scopes(query.TextMatch(f.Search))
	}
	return tx
}

// List returns one page of documents plus the pagination envelope. The count
// query shares the filter fragments with the page query.
func (s *DocumentService) List(f DocumentFilters, page, limit int) ([]models.Document, query.Pagination, error) {
	var total int64
	if err := s.filtered(f).Count(&total).Error; err != nil {
		return nil, query.Pagination{}, err
	}

	var docs []models.Document
	err := s.filtered(f).
		Order("upload_date DESC").
		Scopes(query.Paginate(page, limit)).
		Find(&docs).Error
	if err != nil {
		return nil, query.Pagination{}, err
	}

	return docs, query.NewPagination(page, limit, total), nil
}

// Get fetches one document; gorm.ErrRecordNotFound when absent.
func (s *DocumentService) Get(id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create inserts a new document row.
func (s *DocumentService) Create(doc *models.Document) error {
	return s.db.Create(doc).Error
}

// Update applies a partial update restricted to the column allow-list and
// returns the refreshed row. Tags are JSON-encoded before writing.
func (s *DocumentService) Update(id string, updates map[string]interface{}) (*models.Document, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	columns := map[string]interface{}{}
	for key, value := range updates {
		if !documentColumns[key] {
			continue
		}
		if key == "tags" {
			raw, err := json.Marshal(value)
			if err != nil {
				continue
			}
			columns[key] = string(raw)
			continue
		}
		columns[key] = value
	}

	if len(columns) == 0 {
		return nil, ErrNoUpdatableFields
	}

	if err := s.db.Model(&models.Document{}).Where("id = ?", id).Updates(columns).Error; err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete hard-deletes a document row.
func (s *DocumentService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.db.Where("id = ?", id).Delete(&models.Document{}).Error
}

// StatsOverview computes the document aggregate counters in a single pass.
func (s *DocumentService) StatsOverview() (DocumentStats, error) {
	var stats DocumentStats
	err := s.db.Model(&models.Document{}).
		Select(`COUNT(*) AS total_documents,
			COUNT(CASE WHEN status = ? THEN 1 END) AS active_documents,
			COUNT(CASE WHEN priority = ? THEN 1 END) AS high_priority,
			COALESCE(AVG(confidence), 0) AS avg_confidence,
			COUNT(DISTINCT department) AS departments_count`,
			models.StatusActive, models.PriorityHigh).
		Scan(&stats).Error

	return stats, err
}
