package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/models"
)

func setupComplianceRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	db := setupHandlerDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewComplianceHandler(db).RegisterRoutes(r.Group("/api/v1"))
	return r, db
}

func TestComplianceHandler_Create(t *testing.T) {
	r, _ := setupComplianceRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/v1/compliance", gin.H{
		"title":     "Annual fire safety audit",
		"authority": "Fire Department",
		"due_date":  "2026-12-01",
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, models.ComplianceStatusNormal, created["status"])
}

func TestComplianceHandler_Create_Invalid(t *testing.T) {
	r, _ := setupComplianceRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/v1/compliance", gin.H{
		"title": "No authority or due date",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title, authority, and due date are required")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/v1/compliance", gin.H{
		"title":     "Bad date",
		"authority": "Metro Authority",
		"due_date":  "next week",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid due date")
}

func TestComplianceHandler_GetEnriched(t *testing.T) {
	r, db := setupComplianceRouter(t)

	item := models.ComplianceItem{
		Title:     "Track renewal certification",
		Authority: "Rail Regulator",
		DueDate:   time.Now().AddDate(0, 0, 10),
		Status:    models.ComplianceStatusWarning,
		Progress:  45,
	}
	require.NoError(t, db.Create(&item).Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/compliance/"+item.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.EqualValues(t, 45, view["progress_percentage"])
	assert.Equal(t, false, view["is_overdue"])
	assert.InDelta(t, 10, view["days_left"], 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/compliance/missing-id", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComplianceHandler_Update(t *testing.T) {
	r, db := setupComplianceRouter(t)

	item := models.ComplianceItem{
		Title:     "Noise compliance filing",
		Authority: "Environment Agency",
		DueDate:   time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(&item).Error)
	before := item.LastUpdate

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", "/api/v1/compliance/"+item.ID, gin.H{
		"progress": 90,
		"status":   models.ComplianceStatusNormal,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.ComplianceItem
	require.NoError(t, db.Where("id = ?", item.ID).First(&updated).Error)
	assert.EqualValues(t, 90, updated.Progress)
	assert.True(t, updated.LastUpdate.After(before) || updated.LastUpdate.Equal(before))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", "/api/v1/compliance/"+item.ID, gin.H{"unknown": 1}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No valid fields to update")
}

func TestComplianceHandler_Deadlines(t *testing.T) {
	r, db := setupComplianceRouter(t)

	soon := models.ComplianceItem{
		Title: "Due soon", Authority: "A",
		DueDate: time.Now().AddDate(0, 0, 3), Status: models.ComplianceStatusUrgent,
	}
	far := models.ComplianceItem{
		Title: "Due far", Authority: "A",
		DueDate: time.Now().AddDate(0, 6, 0), Status: models.ComplianceStatusNormal,
	}
	overdue := models.ComplianceItem{
		Title: "Past due", Authority: "A",
		DueDate: time.Now().AddDate(0, 0, -2), Status: models.ComplianceStatusUrgent,
	}
	for _, item := range []*models.ComplianceItem{&soon, &far, &overdue} {
		require.NoError(t, db.Create(item).Error)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/compliance/deadlines/upcoming?days=7", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var upcoming []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upcoming))
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Due soon", upcoming[0]["title"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/compliance/deadlines/overdue", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var late []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &late))
	require.Len(t, late, 1)
	assert.Equal(t, "Past due", late[0]["title"])
	assert.Equal(t, true, late[0]["is_overdue"])
}

func TestComplianceHandler_Stats(t *testing.T) {
	r, db := setupComplianceRouter(t)

	items := []models.ComplianceItem{
		{Title: "A", Authority: "X", DueDate: time.Now(), Status: models.ComplianceStatusUrgent, Progress: 20},
		{Title: "B", Authority: "X", DueDate: time.Now(), Status: models.ComplianceStatusWarning, Progress: 85},
		{Title: "C", Authority: "X", DueDate: time.Now(), Status: models.ComplianceStatusNormal, Progress: 95},
	}
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/compliance/stats/overview", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 3, stats["total_items"])
	assert.EqualValues(t, 1, stats["urgent_items"])
	assert.EqualValues(t, 1, stats["warning_items"])
	assert.EqualValues(t, 2, stats["on_track"])
}
