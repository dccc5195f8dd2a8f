package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/models"
)

// DepartmentShare is one slice of the department distribution.
type DepartmentShare struct {
	Department string  `json:"department"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyTrend is one month of upload and processing volume.
type MonthlyTrend struct {
	Month     string `json:"month"`
	Uploads   int64  `json:"uploads"`
	Processed int64  `json:"processed"`
}

// ProcessingMetrics summarizes the last 30 days of pipeline activity.
type ProcessingMetrics struct {
	AccuracyRate        float64 `json:"accuracy_rate"`
	AvgConfidence       float64 `json:"avg_confidence"`
	CurrentlyProcessing int64   `json:"currently_processing"`
}

// DashboardAnalytics is the response shape of the analytics dashboard.
type DashboardAnalytics struct {
	DocumentStats struct {
		TotalDocuments  int64   `json:"total_documents"`
		TodayDocuments  int64   `json:"today_documents"`
		ActiveDocuments int64   `json:"active_documents"`
		HighPriority    int64   `json:"high_priority"`
		AvgConfidence   float64 `json:"avg_confidence"`
	} `json:"document_stats"`
	DepartmentDistribution []DepartmentShare `json:"department_distribution"`
	MonthlyTrends          []MonthlyTrend    `json:"monthly_trends"`
	ProcessingMetrics      ProcessingMetrics `json:"processing_metrics"`
}

// RecentDocument is the trimmed row shape listed on the dashboard.
type RecentDocument struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Department string    `json:"department"`
	Priority   string    `json:"priority"`
	UploadDate time.Time `json:"upload_date"`
	Summary    string    `json:"summary"`
	Status     string    `json:"status"`
}

// ComplianceAlert is the trimmed compliance shape listed on the dashboard.
type ComplianceAlert struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	DueDate  time.Time `json:"due_date"`
	Status   string    `json:"status"`
	DaysLeft int       `json:"days_left"`
}

// DashboardOverview is the response shape of the dashboard overview.
type DashboardOverview struct {
	Stats struct {
		DocumentsProcessedToday int64   `json:"documents_processed_today"`
		PendingReviews          int64   `json:"pending_reviews"`
		ComplianceAlerts        int64   `json:"compliance_alerts"`
		AutoCategorizedPct      float64 `json:"auto_categorized_percentage"`
	} `json:"stats"`
	RecentDocuments  []RecentDocument  `json:"recent_documents"`
	ComplianceAlerts []ComplianceAlert `json:"compliance_alerts_list"`
	SystemStatus     struct {
		ProcessingActive bool      `json:"ai_processing_active"`
		LastUpdated      time.Time `json:"last_updated"`
	} `json:"system_status"`
}

// QuickActions is the response shape of the dashboard quick-actions panel.
type QuickActions struct {
	ProcessingQueue int64   `json:"processing_queue"`
	AvgConfidence   float64 `json:"avg_confidence"`
	UrgentItems     int64   `json:"urgent_items"`
}

// AnalyticsService computes read-only aggregates for the analytics and
// dashboard endpoints.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates an analytics service bound to the given database.
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Dashboard computes the full analytics dashboard payload.
func (s *AnalyticsService) Dashboard() (DashboardAnalytics, error) {
	var out DashboardAnalytics

	err := s.db.Model(&models.Document{}).
		Select(`COUNT(*) AS total_documents,
			COUNT(CASE WHEN DATE(upload_date) = DATE('now') THEN 1 END) AS today_documents,
			COUNT(CASE WHEN status = ? THEN 1 END) AS active_documents,
			COUNT(CASE WHEN priority = ? THEN 1 END) AS high_priority,
			COALESCE(AVG(confidence), 0) AS avg_confidence`,
			models.StatusActive, models.PriorityHigh).
		Scan(&out.DocumentStats).Error
	if err != nil {
		return out, err
	}

	err = s.db.Raw(`SELECT department,
			COUNT(*) AS count,
			ROUND(CAST(COUNT(*) AS FLOAT) / (SELECT COUNT(*) FROM documents) * 100, 1) AS percentage
		FROM documents
		GROUP BY department
		ORDER BY count DESC`).Scan(&out.DepartmentDistribution).Error
	if err != nil {
		return out, err
	}

	err = s.db.Raw(`SELECT strftime('%Y-%m', upload_date) AS month,
			COUNT(*) AS uploads,
			COUNT(CASE WHEN status = ? THEN 1 END) AS processed
		FROM documents
		WHERE upload_date >= DATE('now', '-5 months')
		GROUP BY strftime('%Y-%m', upload_date)
		ORDER BY month DESC`, models.StatusComplete).Scan(&out.MonthlyTrends).Error
	if err != nil {
		return out, err
	}

	err = s.db.Raw(`SELECT AVG(CASE WHEN status = ? THEN 1.0 ELSE 0 END) * 100 AS accuracy_rate,
			COALESCE(AVG(confidence), 0) AS avg_confidence,
			COUNT(CASE WHEN status = ? THEN 1 END) AS currently_processing
		FROM documents
		WHERE upload_date >= DATE('now', '-30 days')`,
		models.StatusComplete, models.StatusProcessing).Scan(&out.ProcessingMetrics).Error

	return out, err
}

// Departments returns the per-department processed volume recorded by the
// processing sweeper.
func (s *AnalyticsService) Departments() ([]models.DocumentAnalytics, error) {
	var rows []models.DocumentAnalytics
	err := s.db.Order("date DESC, department ASC").Find(&rows).Error
	return rows, err
}

// Overview computes the dashboard landing payload: today's counters, the
// five most recent documents, and the top urgent or warning deadlines.
func (s *AnalyticsService) Overview() (DashboardOverview, error) {
	var out DashboardOverview

	err := s.db.Model(&models.Document{}).
		Select(`COUNT(CASE WHEN DATE(upload_date) = DATE('now') THEN 1 END) AS documents_processed_today,
			COUNT(CASE WHEN status = ? THEN 1 END) AS pending_reviews,
			COUNT(CASE WHEN priority = ? THEN 1 END) AS compliance_alerts,
			ROUND(COALESCE(AVG(confidence), 0), 2) AS auto_categorized_pct`,
			models.StatusProcessing, models.PriorityHigh).
		Scan(&out.Stats).Error
	if err != nil {
		return out, err
	}

	err = s.db.Model(&models.Document{}).
		Select("id, title, department, priority, upload_date, summary, status").
		Order("upload_date DESC").
		Limit(5).
		Scan(&out.RecentDocuments).Error
	if err != nil {
		return out, err
	}

	var alerts []models.ComplianceItem
	err = s.db.Where("status IN ? AND due_date >= ?",
		[]string{models.ComplianceStatusUrgent, models.ComplianceStatusWarning}, time.Now()).
		Order("due_date ASC").
		Limit(3).
		Find(&alerts).Error
	if err != nil {
		return out, err
	}
	out.ComplianceAlerts = make([]ComplianceAlert, 0, len(alerts))
	for _, item := range alerts {
		out.ComplianceAlerts = append(out.ComplianceAlerts, ComplianceAlert{
			ID:       item.ID,
			Title:    item.Title,
			DueDate:  item.DueDate,
			Status:   item.Status,
			DaysLeft: item.DaysLeft(),
		})
	}

	out.SystemStatus.ProcessingActive = true
	out.SystemStatus.LastUpdated = time.Now()

	return out, nil
}

// QuickActions computes the queue depth and urgency counters.
func (s *AnalyticsService) QuickActions() (QuickActions, error) {
	var out QuickActions

	err := s.db.Model(&models.Document{}).
		Select(`COUNT(CASE WHEN status = ? THEN 1 END) AS processing_queue,
			ROUND(COALESCE(AVG(confidence), 0), 2) AS avg_confidence`,
			models.StatusProcessing).
		Where("upload_date >= DATE('now', '-1 day')").
		Scan(&out).Error
	if err != nil {
		return out, err
	}

	err = s.db.Model(&models.ComplianceItem{}).
		Where("status = ? AND due_date >= ?", models.ComplianceStatusUrgent, time.Now()).
		Count(&out.UrgentItems).Error

	return out, err
}
