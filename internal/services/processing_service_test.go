package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlabs/metrodocs/internal/models"
)

func TestProcessingService_SweepDue(t *testing.T) {
	db := setupTestDB(t)
	service := NewProcessingService(db, 0, NewNotificationService(nil))

	doc := models.Document{
		Title: "Uploaded Report", Department: "Engineering", Type: "Report",
		Author: "System", Status: models.StatusProcessing, Confidence: 90,
	}
	require.NoError(t, db.Create(&doc).Error)
	require.NoError(t, service.Schedule(doc.ID))

	completed, err := service.SweepDue()
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	var updated models.Document
	require.NoError(t, db.Where("id = ?", doc.ID).First(&updated).Error)
	assert.Equal(t, models.StatusComplete, updated.Status)

	var job models.ProcessingJob
	require.NoError(t, db.Where("document_id = ?", doc.ID).First(&job).Error)
	assert.Equal(t, models.JobDone, job.State)
	assert.NotNil(t, job.CompletedAt)

	// Sweep is idempotent once the job is done.
	completed, err = service.SweepDue()
	require.NoError(t, err)
	assert.Zero(t, completed)
}

func TestProcessingService_FutureJobNotSwept(t *testing.T) {
	db := setupTestDB(t)
	service := NewProcessingService(db, time.Hour, NewNotificationService(nil))

	doc := models.Document{
		Title: "Pending Report", Department: "Operations", Type: "Report",
		Author: "System", Status: models.StatusProcessing,
	}
	require.NoError(t, db.Create(&doc).Error)
	require.NoError(t, service.Schedule(doc.ID))

	completed, err := service.SweepDue()
	require.NoError(t, err)
	assert.Zero(t, completed)

	var unchanged models.Document
	require.NoError(t, db.Where("id = ?", doc.ID).First(&unchanged).Error)
	assert.Equal(t, models.StatusProcessing, unchanged.Status)

	pending, err := service.PendingCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)
}

// A pending job left behind by a dead process is recoverable: anything with
// run_at in the past completes on the next sweep, no timer required.
func TestProcessingService_RecoversStrandedJobs(t *testing.T) {
	db := setupTestDB(t)
	service := NewProcessingService(db, 0, NewNotificationService(nil))

	doc := models.Document{
		Title: "Stranded Report", Department: "Finance", Type: "Report",
		Author: "System", Status: models.StatusProcessing, Confidence: 85,
	}
	require.NoError(t, db.Create(&doc).Error)

	job := models.ProcessingJob{
		DocumentID: doc.ID,
		State:      models.JobPending,
		RunAt:      time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&job).Error)

	completed, err := service.SweepDue()
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	var recovered models.Document
	require.NoError(t, db.Where("id = ?", doc.ID).First(&recovered).Error)
	assert.Equal(t, models.StatusComplete, recovered.Status)
}

func TestProcessingService_RecordsAnalytics(t *testing.T) {
	db := setupTestDB(t)
	service := NewProcessingService(db, 0, NewNotificationService(nil))

	for i := 0; i < 2; i++ {
		doc := models.Document{
			Title: "Batch Doc", Department: "Engineering", Type: "Report",
			Author: "System", Status: models.StatusProcessing, Confidence: 90,
		}
		require.NoError(t, db.Create(&doc).Error)
		require.NoError(t, service.Schedule(doc.ID))
	}

	_, err := service.SweepDue()
	require.NoError(t, err)

	var row models.DocumentAnalytics
	require.NoError(t, db.Where("department = ?", "Engineering").First(&row).Error)
	assert.Equal(t, 2, row.DocumentsProcessed)
	assert.InDelta(t, 90, row.AccuracyRate, 0.01)
	assert.Equal(t, time.Now().Format("2006-01-02"), row.Date)
}

func TestProcessingService_DeletedDocumentRetiresJob(t *testing.T) {
	db := setupTestDB(t)
	service := NewProcessingService(db, 0, NewNotificationService(nil))

	doc := models.Document{
		Title: "Short Lived", Department: "HR", Type: "Report",
		Author: "System", Status: models.StatusProcessing,
	}
	require.NoError(t, db.Create(&doc).Error)
	require.NoError(t, service.Schedule(doc.ID))
	require.NoError(t, db.Where("id = ?", doc.ID).Delete(&models.Document{}).Error)

	_, err := service.SweepDue()
	require.NoError(t, err)

	var job models.ProcessingJob
	require.NoError(t, db.Where("document_id = ?", doc.ID).First(&job).Error)
	assert.Equal(t, models.JobDone, job.State)
}
