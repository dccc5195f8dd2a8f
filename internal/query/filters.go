// Package query centralizes the filter, pagination, and relevance-ranking
// composition shared by the documents, compliance, and search endpoints.
// Every fragment binds its value as a parameter; nothing is interpolated.
package query

import (
	"strings"

	"gorm.io/gorm"
)

// Disabled reports whether a filter value is absent or one of the UI sentinel
// values ("All", "all", "All Departments", "All Priorities", ...) that mean
// "do not filter" rather than a literal match.
func Disabled(value string) bool {
	if value == "" {
		return true
	}
	if strings.EqualFold(value, "all") {
		return true
	}
	return strings.HasPrefix(value, "All ")
}

// Scope is a composable query fragment in gorm's scope form.
type Scope = func(*gorm.DB) *gorm.DB

// Equals filters column = value unless the value is a sentinel.
func Equals(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if Disabled(value) {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

// Contains filters column LIKE %value% unless the value is a sentinel.
func Contains(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if Disabled(value) {
			return db
		}
		return db.Where(column+" LIKE ?", Pattern(value))
	}
}

// DateFrom filters DATE(column) >= value when value is present.
func DateFrom(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where("DATE("+column+") >= ?", value)
	}
}

// DateTo filters DATE(column) <= value when value is present.
func DateTo(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where("DATE("+column+") <= ?", value)
	}
}

// Pattern wraps a term for substring LIKE matching.
func Pattern(term string) string {
	return "%" + term + "%"
}
