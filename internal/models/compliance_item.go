package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Compliance statuses.
const (
	ComplianceStatusUrgent  = "urgent"
	ComplianceStatusWarning = "warning"
	ComplianceStatusNormal  = "normal"
)

// ComplianceItem is a regulatory obligation with a due date and progress
// percentage. Progress and status are independently settable; nothing ties
// them to due-date proximity.
type ComplianceItem struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Title          string    `json:"title" gorm:"not null"`
	Description    string    `json:"description"`
	Authority      string    `json:"authority" gorm:"not null"`
	DueDate        time.Time `json:"due_date" gorm:"not null;index"`
	Status         string    `json:"status" gorm:"default:'normal';index"`
	Progress       float64   `json:"progress" gorm:"default:0"`
	AssignedTo     string    `json:"assigned_to"`
	DocumentsCount int       `json:"documents_count" gorm:"default:0"`
	LastUpdate     time.Time `json:"last_update"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c *ComplianceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.LastUpdate.IsZero() {
		c.LastUpdate = time.Now()
	}
	return
}

// DaysLeft returns the whole days until the due date, negative when overdue.
func (c *ComplianceItem) DaysLeft() int {
	return int(time.Until(c.DueDate).Hours() / 24)
}

// IsOverdue reports whether the due date has passed.
func (c *ComplianceItem) IsOverdue() bool {
	return c.DueDate.Before(time.Now())
}
