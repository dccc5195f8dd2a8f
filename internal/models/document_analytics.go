package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentAnalytics accumulates per-department daily processing counters.
// Rows are upserted by the processing sweeper as jobs complete.
type DocumentAnalytics struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	Date               string    `json:"date" gorm:"not null;index:idx_analytics_day,unique"` // YYYY-MM-DD
	Department         string    `json:"department" gorm:"not null;index:idx_analytics_day,unique"`
	DocumentsProcessed int       `json:"documents_processed" gorm:"default:0"`
	AccuracyRate       float64   `json:"accuracy_rate" gorm:"default:0"`
	ProcessingTime     float64   `json:"processing_time" gorm:"default:0"` // seconds
	CreatedAt          time.Time `json:"created_at"`
}

func (a *DocumentAnalytics) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return
}
