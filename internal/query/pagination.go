package query

import (
	"strconv"

	"gorm.io/gorm"
)

const (
	// DefaultLimit is the page size used when the client sends none.
	DefaultLimit = 20
	// MaxLimit caps the page size so a single request cannot drain the table.
	MaxLimit = 100
)

// Pagination is the envelope returned alongside every list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ParsePage interprets the raw page/limit query parameters. Non-numeric or
// out-of-range values fall back to defaults; limit is clamped to MaxLimit.
func ParsePage(pageStr, limitStr string) (page, limit int) {
	page = 1
	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		page = n
	}

	limit = DefaultLimit
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		limit = n
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}

// Paginate returns a scope applying LIMIT/OFFSET with offset = (page-1)*limit.
func Paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// NewPagination computes the response envelope. pages is ceil(total/limit)
// and zero when the result set is empty.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
