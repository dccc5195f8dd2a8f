package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty passes through", in: "", want: ""},
		{name: "plain text untouched", in: "track inspection", want: "track inspection"},
		{name: "crlf collapsed", in: "line1\r\nline2", want: "line1 line2"},
		{name: "newline collapsed", in: "line1\nline2", want: "line1 line2"},
		{name: "control run collapsed", in: "a\x00\x1b\x07b", want: "a b"},
		{name: "del removed", in: "a\x7fb", want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeForLog(tt.in))
		})
	}
}
