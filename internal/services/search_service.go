package services

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/transitlabs/metrodocs/internal/logger"
	"github.com/transitlabs/metrodocs/internal/metrics"
	"github.com/transitlabs/metrodocs/internal/models"
	"github.com/transitlabs/metrodocs/internal/query"
)

// SearchParams carries the free-text term plus the optional filters of the
// search endpoint.
type SearchParams struct {
	Query      string
	Department string
	Type       string
	Language   string
	DateFrom   string
	DateTo     string
	Page       int
	Limit      int
	UserID     string
}

// SearchResult is a document plus its relevance score and cosmetic highlights.
type SearchResult struct {
	models.Document
	RelevanceScore int      `json:"relevance_score"`
	Highlights     []string `json:"highlights"`
}

// MarshalJSON flattens the embedded document (with decoded tags) and appends
// the search-only fields. Without this the promoted Document marshaller
// would swallow them.
func (r SearchResult) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(r.Document)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	m["relevance_score"] = r.RelevanceScore
	m["highlights"] = r.Highlights
	return json.Marshal(m)
}

// SearchOverview aggregates the last 30 days of search logs.
type SearchOverview struct {
	TotalSearches int64   `json:"total_searches"`
	AvgResults    float64 `json:"avg_results"`
	AvgSearchTime float64 `json:"avg_search_time"`
	UniqueQueries int64   `json:"unique_queries"`
}

// PopularQuery is one entry of the popular-queries ranking.
type PopularQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Suggestion is one typeahead entry sourced from titles or summaries.
type Suggestion struct {
	Suggestion string `json:"suggestion"`
	Type       string `json:"type"`
	Frequency  int64  `json:"frequency"`
}

// SearchService ranks documents by field match and records search logs.
type SearchService struct {
	db *gorm.DB
}

// NewSearchService creates a search service bound to the given database.
func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

func (s *SearchService) filtered(p SearchParams) *gorm.DB {
	return s.db.Model(&models.Document{}).Scopes(
		query.TextMatch(p.Query),
		query.Equals("department", p.Department),
		query.Equals("type", p.Type),
		query.Equals("language", p.Language),
		query.DateFrom("upload_date", p.DateFrom),
		query.DateTo("upload_date", p.DateTo),
	)
}

// Search runs the ranked query, enriches the page with highlights, and
// records a search log entry. The returned duration is the measured query
// time in seconds.
func (s *SearchService) Search(p SearchParams) ([]SearchResult, query.Pagination, float64, error) {
	started := time.Now()

	var total int64
	if err := s.filtered(p).Count(&total).Error; err != nil {
		return nil, query.Pagination{}, 0, err
	}

	pattern := query.Pattern(p.Query)
	var docs []models.Document
	err := s.filtered(p).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "(" + query.RelevanceExpr + ") DESC, upload_date DESC",
			Vars:               []interface{}{pattern, pattern, pattern},
			WithoutParentheses: true,
		}}).
		Scopes(query.Paginate(p.Page, p.Limit)).
		Find(&docs).Error
	if err != nil {
		return nil, query.Pagination{}, 0, err
	}

	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, SearchResult{
			Document:       doc,
			RelevanceScore: relevanceOf(doc, p.Query),
			Highlights:     query.Highlights(doc.Title, doc.Summary, doc.Content, p.Query),
		})
	}

	elapsed := time.Since(started).Seconds()
	metrics.IncSearch()

	// A failed log write must never fail the search response.
	s.logSearch(p.Query, p.UserID, len(results), elapsed)

	return results, query.NewPagination(p.Page, p.Limit, total), elapsed, nil
}

func (s *SearchService) logSearch(q, userID string, resultsCount int, elapsed float64) {
	entry := models.SearchLog{
		Query:        q,
		UserID:       userID,
		ResultsCount: resultsCount,
		SearchTime:   elapsed,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Log().WithError(err).Warn("failed to record search log")
	}
}

// relevanceOf mirrors the SQL CASE ranking for the response body. SQLite
// LIKE is case-insensitive for ASCII, so both sides are lowercased here.
func relevanceOf(doc models.Document, q string) int {
	term := strings.ToLower(q)
	switch {
	case strings.Contains(strings.ToLower(doc.Title), term):
		return 3
	case strings.Contains(strings.ToLower(doc.Summary), term):
		return 2
	case strings.Contains(strings.ToLower(doc.Content), term):
		return 1
	default:
		return 0
	}
}

// Suggestions returns typeahead entries: up to five matching titles and
// three summary snippets. Queries shorter than two characters yield nothing.
func (s *SearchService) Suggestions(q string) ([]Suggestion, error) {
	if utf8.RuneCountInString(q) < 2 {
		return []Suggestion{}, nil
	}

	pattern := query.Pattern(q)
	var titles []Suggestion
	err := s.db.Raw(`SELECT DISTINCT title AS suggestion, 'title' AS type, COUNT(*) AS frequency
		FROM documents
		WHERE title LIKE ?
		GROUP BY title
		ORDER BY frequency DESC, title
		LIMIT 5`, pattern).Scan(&titles).Error
	if err != nil {
		return nil, err
	}

	var summaries []Suggestion
	err = s.db.Raw(`SELECT DISTINCT substr(summary, 1, 50) || '...' AS suggestion, 'summary' AS type, COUNT(*) AS frequency
		FROM documents
		WHERE summary LIKE ?
		GROUP BY summary
		ORDER BY frequency DESC
		LIMIT 3`, pattern).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	out := append([]Suggestion{}, titles...)
	out = append(out, summaries...)
	return out, nil
}

// AnalyticsOverview aggregates the last 30 days of search activity.
func (s *SearchService) AnalyticsOverview() (SearchOverview, []PopularQuery, error) {
	since := time.Now().AddDate(0, 0, -30)

	var overview SearchOverview
	err := s.db.Model(&models.SearchLog{}).
		Select(`COUNT(*) AS total_searches,
			COALESCE(AVG(results_count), 0) AS avg_results,
			COALESCE(AVG(search_time), 0) AS avg_search_time,
			COUNT(DISTINCT query) AS unique_queries`).
		Where("timestamp >= ?", since).
		Scan(&overview).Error
	if err != nil {
		return SearchOverview{}, nil, err
	}

	var popular []PopularQuery
	err = s.db.Model(&models.SearchLog{}).
		Select("query, COUNT(*) AS count").
		Where("timestamp >= ?", since).
		Group("query").
		Order("count DESC").
		Limit(10).
		Scan(&popular).Error
	if err != nil {
		return SearchOverview{}, nil, err
	}

	return overview, popular, nil
}
