package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/transitlabs/metrodocs/internal/logger"
	"github.com/transitlabs/metrodocs/internal/metrics"
	"github.com/transitlabs/metrodocs/internal/models"
)

// ProcessingService drives the simulated document pipeline. Instead of an
// in-memory timer, every scheduled transition is a processing_jobs row; the
// sweeper completes jobs whose run_at has passed, so pending work survives
// a restart.
type ProcessingService struct {
	db       *gorm.DB
	delay    time.Duration
	notifier *NotificationService
}

// NewProcessingService creates a processing service with the given simulated
// processing delay.
func NewProcessingService(db *gorm.DB, delay time.Duration, notifier *NotificationService) *ProcessingService {
	return &ProcessingService{db: db, delay: delay, notifier: notifier}
}

// Schedule records a pending job that will flip the document to "complete"
// once the simulated processing delay has elapsed.
func (s *ProcessingService) Schedule(documentID string) error {
	job := models.ProcessingJob{
		DocumentID: documentID,
		State:      models.JobPending,
		RunAt:      time.Now().Add(s.delay),
	}
	return s.db.Create(&job).Error
}

// SweepDue completes every pending job whose run time has passed and returns
// how many documents were transitioned. Called by the cron scheduler and
// once at startup to recover jobs stranded by a restart.
func (s *ProcessingService) SweepDue() (int, error) {
	var jobs []models.ProcessingJob
	err := s.db.Where("state = ? AND run_at <= ?", models.JobPending, time.Now()).
		Find(&jobs).Error
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	completed := 0
	for _, job := range jobs {
		if err := s.complete(job); err != nil {
			logger.WithFields(map[string]interface{}{"job": job.ID, "document": job.DocumentID}).
				WithError(err).Error("failed to complete processing job")
			continue
		}
		completed++
	}

	if completed > 0 {
		metrics.AddJobsCompleted(completed)
		s.notifier.NotifyProcessed(completed)
	}

	return completed, nil
}

func (s *ProcessingService) complete(job models.ProcessingJob) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.Where("id = ?", job.DocumentID).First(&doc).Error; err != nil {
			// Document deleted while the job was pending; retire the job.
			now := time.Now()
			return tx.Model(&models.ProcessingJob{}).Where("id = ?", job.ID).
				Updates(map[string]interface{}{"state": models.JobDone, "completed_at": &now}).Error
		}

		if err := tx.Model(&models.Document{}).Where("id = ?", doc.ID).
			Update("status", models.StatusComplete).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.ProcessingJob{}).Where("id = ?", job.ID).
			Updates(map[string]interface{}{"state": models.JobDone, "completed_at": &now}).Error; err != nil {
			return err
		}

		return s.recordAnalytics(tx, doc, now)
	})
}

// recordAnalytics upserts the per-department daily counters the analytics
// endpoints read.
func (s *ProcessingService) recordAnalytics(tx *gorm.DB, doc models.Document, now time.Time) error {
	day := now.Format("2006-01-02")
	row := models.DocumentAnalytics{
		Date:               day,
		Department:         doc.Department,
		DocumentsProcessed: 1,
		AccuracyRate:       doc.Confidence,
		ProcessingTime:     s.delay.Seconds(),
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "department"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"documents_processed": gorm.Expr("documents_processed + 1"),
			"accuracy_rate":       gorm.Expr("(accuracy_rate * documents_processed + ?) / (documents_processed + 1)", doc.Confidence),
		}),
	}).Create(&row).Error
}

// PendingCount returns the current processing queue depth.
func (s *ProcessingService) PendingCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.ProcessingJob{}).
		Where("state = ?", models.JobPending).
		Count(&count).Error
	return count, err
}
