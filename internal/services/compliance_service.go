package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/models"
	"github.com/transitlabs/metrodocs/internal/query"
)

// complianceColumns is the allow-list for partial updates.
var complianceColumns = map[string]bool{
	"title":           true,
	"description":     true,
	"authority":       true,
	"due_date":        true,
	"status":          true,
	"progress":        true,
	"assigned_to":     true,
	"documents_count": true,
}

// ComplianceFilters are the optional list filters for compliance items.
// Department is matched against assigned_to with a substring LIKE.
type ComplianceFilters struct {
	Status     string
	Department string
}

// ComplianceView is a compliance item enriched with the derived deadline
// fields every read endpoint returns.
type ComplianceView struct {
	models.ComplianceItem
	DaysLeft           int     `json:"days_left"`
	ProgressPercentage float64 `json:"progress_percentage"`
	IsOverdue          bool    `json:"is_overdue"`
}

// ComplianceStats is the aggregate shape for the stats overview endpoint.
type ComplianceStats struct {
	TotalItems        int64   `json:"total_items"`
	UrgentItems       int64   `json:"urgent_items"`
	WarningItems      int64   `json:"warning_items"`
	OnTrack           int64   `json:"on_track"`
	AvgCompletionRate float64 `json:"avg_completion_rate"`
}

// ComplianceService owns CRUD and deadline queries for compliance items.
type ComplianceService struct {
	db *gorm.DB
}

// NewComplianceService creates a compliance service bound to the given database.
func NewComplianceService(db *gorm.DB) *ComplianceService {
	return &ComplianceService{db: db}
}

func enrich(item models.ComplianceItem) ComplianceView {
	return ComplianceView{
		ComplianceItem:     item,
		DaysLeft:           item.DaysLeft(),
		ProgressPercentage: item.Progress,
		IsOverdue:          item.IsOverdue(),
	}
}

func (s *ComplianceService) filtered(f ComplianceFilters) *gorm.DB {
	return s.db.Model(&models.ComplianceItem{}).Scopes(
		query.Equals("status", f.Status),
		query.Contains("assigned_to", f.Department),
	)
}

// List returns one page of enriched compliance items ordered by due date.
func (s *ComplianceService) List(f ComplianceFilters, page, limit int) ([]ComplianceView, query.Pagination, error) {
	var total int64
	if err := s.filtered(f).Count(&total).Error; err != nil {
		return nil, query.Pagination{}, err
	}

	var items []models.ComplianceItem
	err := s.filtered(f).
		Order("due_date ASC").
		Scopes(query.Paginate(page, limit)).
		Find(&items).Error
	if err != nil {
		return nil, query.Pagination{}, err
	}

	views := make([]ComplianceView, 0, len(items))
	for _, item := range items {
		views = append(views, enrich(item))
	}

	return views, query.NewPagination(page, limit, total), nil
}

// Get fetches one enriched item; gorm.ErrRecordNotFound when absent.
func (s *ComplianceService) Get(id string) (*ComplianceView, error) {
	var item models.ComplianceItem
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	view := enrich(item)
	return &view, nil
}

// Create inserts a new compliance item.
func (s *ComplianceService) Create(item *models.ComplianceItem) error {
	return s.db.Create(item).Error
}

// Update applies an allow-listed partial update and bumps last_update.
func (s *ComplianceService) Update(id string, updates map[string]interface{}) (*ComplianceView, error) {
	var item models.ComplianceItem
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}

	columns := map[string]interface{}{}
	for key, value := range updates {
		if !complianceColumns[key] {
			continue
		}
		if key == "due_date" {
			if raw, ok := value.(string); ok {
				due, err := parseDueDate(raw)
				if err != nil {
					continue
				}
				columns[key] = due
				continue
			}
		}
		columns[key] = value
	}

	if len(columns) == 0 {
		return nil, ErrNoUpdatableFields
	}
	columns["last_update"] = time.Now()

	if err := s.db.Model(&models.ComplianceItem{}).Where("id = ?", id).Updates(columns).Error; err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete hard-deletes a compliance item.
func (s *ComplianceService) Delete(id string) error {
	var item models.ComplianceItem
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		return err
	}
	return s.db.Where("id = ?", id).Delete(&models.ComplianceItem{}).Error
}

// StatsOverview computes the compliance aggregate counters. "On track" means
// progress of at least 80 percent.
func (s *ComplianceService) StatsOverview() (ComplianceStats, error) {
	var stats ComplianceStats
	err := s.db.Model(&models.ComplianceItem{}).
		Select(`COUNT(*) AS total_items,
			COUNT(CASE WHEN status = ? THEN 1 END) AS urgent_items,
			COUNT(CASE WHEN status = ? THEN 1 END) AS warning_items,
			COUNT(CASE WHEN progress >= 80 THEN 1 END) AS on_track,
			COALESCE(AVG(progress), 0) AS avg_completion_rate`,
			models.ComplianceStatusUrgent, models.ComplianceStatusWarning).
		Scan(&stats).Error

	return stats, err
}

// Upcoming returns up to ten items due within the next `days` days.
func (s *ComplianceService) Upcoming(days int) ([]ComplianceView, error) {
	if days <= 0 {
		days = 30
	}

	now := time.Now()
	var items []models.ComplianceItem
	err := s.db.Where("due_date >= ? AND due_date <= ?", now, now.AddDate(0, 0, days)).
		Order("due_date ASC").
		Limit(10).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	views := make([]ComplianceView, 0, len(items))
	for _, item := range items {
		views = append(views, enrich(item))
	}
	return views, nil
}

// Overdue returns every item whose due date has passed, oldest first.
func (s *ComplianceService) Overdue() ([]ComplianceView, error) {
	var items []models.ComplianceItem
	err := s.db.Where("due_date < ?", time.Now()).
		Order("due_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	views := make([]ComplianceView, 0, len(items))
	for _, item := range items {
		views = append(views, enrich(item))
	}
	return views, nil
}

// parseDueDate accepts the date formats clients actually send.
func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
