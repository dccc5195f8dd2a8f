package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchLog records one executed search for the analytics endpoints.
// Write-only from the request path; only aggregates read it back.
type SearchLog struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Query        string    `json:"query" gorm:"not null;index"`
	UserID       string    `json:"user_id,omitempty"`
	ResultsCount int       `json:"results_count" gorm:"default:0"`
	SearchTime   float64   `json:"search_time"` // seconds
	Timestamp    time.Time `json:"timestamp" gorm:"index"`
}

func (s *SearchLog) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	return
}
