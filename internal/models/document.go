package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Document statuses the backend itself assigns. The column stays free text
// because imported records carry operator-defined statuses like "Under Review".
const (
	StatusActive     = "Active"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
)

// Document is a managed document record. Tags are stored JSON-encoded in a
// text column; use Tags/SetTags instead of touching TagsJSON directly.
type Document struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"not null;index"`
	Content    string    `json:"content,omitempty"`
	Summary    string    `json:"summary"`
	Department string    `json:"department" gorm:"not null;index"`
	Type       string    `json:"type" gorm:"not null"`
	Author     string    `json:"author" gorm:"not null"`
	UploadDate time.Time `json:"upload_date" gorm:"index"`
	FilePath   string    `json:"file_path,omitempty"`
	FileSize   int64     `json:"file_size,omitempty"`
	Language   string    `json:"language" gorm:"default:'English'"`
	Priority   string    `json:"priority" gorm:"default:'Medium'"`
	Status     string    `json:"status" gorm:"default:'Active';index"`
	TagsJSON   string    `json:"-" gorm:"column:tags"`
	Confidence float64   `json:"confidence" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.UploadDate.IsZero() {
		d.UploadDate = time.Now()
	}
	return
}

// Tags decodes the stored tag list. A missing or corrupt column yields an
// empty slice rather than an error so list endpoints never fail on old rows.
func (d *Document) Tags() []string {
	if d.TagsJSON == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(d.TagsJSON), &tags); err != nil {
		return []string{}
	}
	return tags
}

// SetTags JSON-encodes the tag list into the storage column.
func (d *Document) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	raw, _ := json.Marshal(tags)
	d.TagsJSON = string(raw)
}

// MarshalJSON adds the decoded tags array to the default representation.
func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	return json.Marshal(struct {
		alias
		Tags []string `json:"tags"`
	}{
		alias: alias(d),
		Tags:  d.Tags(),
	})
}
