package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlights(t *testing.T) {
	title := "Platform Safety Protocol"
	summary := "safety protocols for platform maintenance with safety checkpoints and safety audits"
	content := "the safety team reviews safety gear before safety drills and safety walks"

	t.Run("title included whole when it matches", func(t *testing.T) {
		got := Highlights(title, "", "", "safety")
		assert.Contains(t, got, title)
	})

	t.Run("at most three words per field", func(t *testing.T) {
		got := Highlights("", summary, content, "safety")
		// "safety" itself dedupes across fields, so the cap shows up in the
		// distinct word count: safety, safety-derived words from each field.
		assert.LessOrEqual(t, len(got), 6)
		assert.Contains(t, got, "safety")
	})

	t.Run("deduplicates across fields", func(t *testing.T) {
		got := Highlights("", "safety safety", "safety", "safety")
		assert.Equal(t, []string{"safety"}, got)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		got := Highlights(title, summary, content, "zzz")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty query yields empty slice", func(t *testing.T) {
		assert.Empty(t, Highlights(title, summary, content, "  "))
	})

	t.Run("multi word query matches per term", func(t *testing.T) {
		got := Highlights("Fire Drill Notes", "", "", "drill schedule")
		assert.Contains(t, got, "Fire Drill Notes")
	})
}
