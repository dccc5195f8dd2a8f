package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"All", true},
		{"all", true},
		{"ALL", true},
		{"All Departments", true},
		{"All Priorities", true},
		{"All Statuses", true},
		{"Engineering", false},
		{"Allocation", false}, // "All" prefix without a space is a real value
		{"High", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Disabled(tt.value))
		})
	}
}

func TestPattern(t *testing.T) {
	assert.Equal(t, "%safety%", Pattern("safety"))
	assert.Equal(t, "%fire drill%", Pattern("fire drill"))
}
