package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Processing job states.
const (
	JobPending = "pending"
	JobDone    = "done"
)

// ProcessingJob is the durable record behind the simulated document
// processing pipeline. The sweeper completes jobs whose RunAt has passed,
// so a restart resumes pending work instead of stranding documents at
// "processing".
type ProcessingJob struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	DocumentID  string     `json:"document_id" gorm:"not null;index"`
	State       string     `json:"state" gorm:"default:'pending';index"`
	RunAt       time.Time  `json:"run_at" gorm:"not null;index"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (j *ProcessingJob) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return
}
