package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRelative(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"future clock skew", now.Add(time.Minute), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"just under an hour", now.Add(-59 * time.Minute), "59m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-2 * 24 * time.Hour), "2d ago"},
		{"six days", now.Add(-6*24*time.Hour - time.Hour), "6d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRelative(tt.at, now))
		})
	}

	old := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, old.Local().Format("2006-01-02"), FormatRelative(old, now))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "<b>bold</b>", plain("<b>bold</b>"))
	assert.Equal(t, "[31mred", plain("\x1b[31mred"))
	assert.Equal(t, "a b", plain("a\nb"))
}
