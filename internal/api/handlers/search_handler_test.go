package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/models"
)

func setupSearchRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	db := setupHandlerDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSearchHandler(db).RegisterRoutes(r.Group("/api/v1"))
	return r, db
}

func seedSearchableDocs(t *testing.T, db *gorm.DB) {
	t.Helper()
	docs := []models.Document{
		{Title: "Escalator maintenance plan", Content: "steps", Department: "Engineering", Type: "Plan", Author: "A"},
		{Title: "Weekly report", Summary: "escalator outage summary", Department: "Operations", Type: "Report", Author: "B"},
		{Title: "Station guide", Content: "escalator locations per station", Department: "Operations", Type: "Guide", Author: "C"},
		{Title: "Procurement policy", Content: "vendor onboarding", Department: "Procurement", Type: "Policy", Author: "D"},
	}
	for i := range docs {
		require.NoError(t, db.Create(&docs[i]).Error)
	}
}

func TestSearchHandler_RequiresQuery(t *testing.T) {
	r, _ := setupSearchRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/search", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Search query is required")
}

func TestSearchHandler_RankedResults(t *testing.T) {
	r, db := setupSearchRouter(t)
	seedSearchableDocs(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/search?q=escalator", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Query   string `json:"query"`
		Results []struct {
			Title          string   `json:"title"`
			RelevanceScore int      `json:"relevance_score"`
			Highlights     []string `json:"highlights"`
		} `json:"results"`
		Total      int64   `json:"total"`
		SearchTime float64 `json:"search_time"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	assert.Equal(t, "escalator", out.Query)
	require.Len(t, out.Results, 3)
	assert.EqualValues(t, 3, out.Total)

	// Title match outranks summary match outranks content match.
	assert.Equal(t, "Escalator maintenance plan", out.Results[0].Title)
	assert.Equal(t, 3, out.Results[0].RelevanceScore)
	assert.Equal(t, "Weekly report", out.Results[1].Title)
	assert.Equal(t, 2, out.Results[1].RelevanceScore)
	assert.Equal(t, "Station guide", out.Results[2].Title)
	assert.Equal(t, 1, out.Results[2].RelevanceScore)

	assert.NotEmpty(t, out.Results[0].Highlights)
	assert.GreaterOrEqual(t, out.SearchTime, 0.0)
	assert.Equal(t, 1, out.Pagination.Page)
	assert.Equal(t, 20, out.Pagination.Limit)

	// Every search is logged.
	var logged int64
	db.Model(&models.SearchLog{}).Count(&logged)
	assert.EqualValues(t, 1, logged)
}

func TestSearchHandler_DepartmentFilter(t *testing.T) {
	r, db := setupSearchRouter(t)
	seedSearchableDocs(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/search?q=escalator&department=Operations", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.EqualValues(t, 2, out.Total)
}

func TestSearchHandler_Suggestions(t *testing.T) {
	r, db := setupSearchRouter(t)
	seedSearchableDocs(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/search/suggestions?q=esc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Suggestions []struct {
			Suggestion string `json:"suggestion"`
			Type       string `json:"type"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Suggestions)
	assert.Equal(t, "Escalator maintenance plan", out.Suggestions[0].Suggestion)
	assert.Equal(t, "title", out.Suggestions[0].Type)

	// Prefixes under two characters return nothing.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/search/suggestions?q=e", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Empty(t, out.Suggestions)
}

func TestSearchHandler_Analytics(t *testing.T) {
	r, db := setupSearchRouter(t)
	seedSearchableDocs(t, db)

	for _, q := range []string{"escalator", "escalator", "vendor"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/search?q="+q, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/search/analytics/overview", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Overview struct {
			TotalSearches int64 `json:"total_searches"`
			UniqueQueries int64 `json:"unique_queries"`
		} `json:"overview"`
		PopularQueries []struct {
			Query string `json:"query"`
			Count int64  `json:"count"`
		} `json:"popular_queries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	assert.EqualValues(t, 3, out.Overview.TotalSearches)
	assert.EqualValues(t, 2, out.Overview.UniqueQueries)
	require.NotEmpty(t, out.PopularQueries)
	assert.Equal(t, "escalator", out.PopularQueries[0].Query)
	assert.EqualValues(t, 2, out.PopularQueries[0].Count)
}
