package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/models"
)

func seedSearchDocs(t *testing.T, db *gorm.DB) {
	docs := []models.Document{
		{
			Title: "Signal maintenance guide", Summary: "routine upkeep",
			Content: "procedures", Department: "Engineering", Type: "Manual", Author: "A",
		},
		{
			Title: "Quarterly report", Summary: "covers signal outages",
			Content: "details", Department: "Operations", Type: "Report", Author: "B",
		},
		{
			Title: "Staff roster", Summary: "weekend shifts",
			Content: "the signal room crew", Department: "HR", Type: "Roster", Author: "C",
		},
		{
			Title: "Catering invoice", Summary: "canteen",
			Content: "unrelated", Department: "Finance", Type: "Invoice", Author: "D",
		},
	}
	for i := range docs {
		require.NoError(t, db.Create(&docs[i]).Error)
	}
}

func TestSearchService_RankingOrder(t *testing.T) {
	db := setupTestDB(t)
	seedSearchDocs(t, db)
	service := NewSearchService(db)

	results, pagination, elapsed, err := service.Search(SearchParams{Query: "signal", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.EqualValues(t, 3, pagination.Total)
	assert.GreaterOrEqual(t, elapsed, 0.0)

	// Title match outranks summary match outranks content match.
	assert.Equal(t, "Signal maintenance guide", results[0].Title)
	assert.Equal(t, 3, results[0].RelevanceScore)
	assert.Equal(t, "Quarterly report", results[1].Title)
	assert.Equal(t, 2, results[1].RelevanceScore)
	assert.Equal(t, "Staff roster", results[2].Title)
	assert.Equal(t, 1, results[2].RelevanceScore)
}

func TestSearchService_WritesSearchLog(t *testing.T) {
	db := setupTestDB(t)
	seedSearchDocs(t, db)
	service := NewSearchService(db)

	_, _, _, err := service.Search(SearchParams{Query: "signal", Page: 1, Limit: 20, UserID: "u-1"})
	require.NoError(t, err)

	var logs []models.SearchLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "signal", logs[0].Query)
	assert.Equal(t, 3, logs[0].ResultsCount)
	assert.Equal(t, "u-1", logs[0].UserID)
}

func TestSearchService_Filters(t *testing.T) {
	db := setupTestDB(t)
	seedSearchDocs(t, db)
	service := NewSearchService(db)

	results, _, _, err := service.Search(SearchParams{
		Query: "signal", Department: "Engineering", Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Signal maintenance guide", results[0].Title)

	// "All" sentinel behaves like the filter was omitted.
	all, _, _, err := service.Search(SearchParams{
		Query: "signal", Department: "All", Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSearchService_Highlights(t *testing.T) {
	db := setupTestDB(t)
	seedSearchDocs(t, db)
	service := NewSearchService(db)

	results, _, _, err := service.Search(SearchParams{Query: "signal", Page: 1, Limit: 20})
	require.NoError(t, err)

	for _, r := range results {
		assert.NotNil(t, r.Highlights)
		assert.NotEmpty(t, r.Highlights)
	}
	assert.Contains(t, results[0].Highlights, "Signal maintenance guide")
}

func TestSearchService_Suggestions(t *testing.T) {
	db := setupTestDB(t)
	seedSearchDocs(t, db)
	service := NewSearchService(db)

	suggestions, err := service.Suggestions("signal")
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)

	short, err := service.Suggestions("s")
	require.NoError(t, err)
	assert.Empty(t, short)

	// Length is counted in runes, so one multi-byte character is still short.
	accented, err := service.Suggestions("é")
	require.NoError(t, err)
	assert.Empty(t, accented)
}

func TestSearchService_AnalyticsOverview(t *testing.T) {
	db := setupTestDB(t)
	seedSearchDocs(t, db)
	service := NewSearchService(db)

	for i := 0; i < 3; i++ {
		_, _, _, err := service.Search(SearchParams{Query: "signal", Page: 1, Limit: 20})
		require.NoError(t, err)
	}
	_, _, _, err := service.Search(SearchParams{Query: "invoice", Page: 1, Limit: 20})
	require.NoError(t, err)

	overview, popular, err := service.AnalyticsOverview()
	require.NoError(t, err)
	assert.EqualValues(t, 4, overview.TotalSearches)
	assert.EqualValues(t, 2, overview.UniqueQueries)
	require.NotEmpty(t, popular)
	assert.Equal(t, "signal", popular[0].Query)
	assert.EqualValues(t, 3, popular[0].Count)
}
