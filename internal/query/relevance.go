package query

import (
	"strings"

	"gorm.io/gorm"
)

// RelevanceExpr ranks a row by which field the search term matched:
// title outranks summary outranks content. Single-term substring match,
// no tokenization; a multi-word query is one literal pattern.
const RelevanceExpr = `CASE
  WHEN title LIKE ? THEN 3
  WHEN summary LIKE ? THEN 2
  WHEN content LIKE ? THEN 1
  ELSE 0
END`

// TextMatch restricts rows to those where any of title, summary, or content
// contains the term.
func TextMatch(term string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		p := Pattern(term)
		return db.Where("(title LIKE ? OR summary LIKE ? OR content LIKE ?)", p, p, p)
	}
}

// Highlights collects up to three matching words each from summary and
// content, plus the full title when it matches. Purely cosmetic; does not
// affect ranking. Duplicates are removed preserving first occurrence.
func Highlights(title, summary, content, q string) []string {
	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 {
		return []string{}
	}

	var out []string
	seen := map[string]bool{}
	add := func(word string) {
		if !seen[word] {
			seen[word] = true
			out = append(out, word)
		}
	}

	lowerTitle := strings.ToLower(title)
	for _, term := range terms {
		if strings.Contains(lowerTitle, term) {
			add(title)
			break
		}
	}

	for _, field := range []string{summary, content} {
		matched := 0
		for _, word := range strings.Fields(strings.ToLower(field)) {
			if matched == 3 {
				break
			}
			for _, term := range terms {
				if strings.Contains(word, term) {
					add(word)
					matched++
					break
				}
			}
		}
	}

	if out == nil {
		return []string{}
	}
	return out
}
