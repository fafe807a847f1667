package tui

import (
	"fmt"
	"strings"
	"time"
)

// FormatRelative renders a completion time relative to now: "just now",
// "5m ago", "3h ago", "2d ago", and a plain date after a week.
func FormatRelative(t, now time.Time) string {
	diff := now.Sub(t)
	mins := int(diff / time.Minute)
	hours := mins / 60
	days := hours / 24

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Local().Format("2006-01-02")
}

// plain strips control characters so stored text is shown, never
// interpreted by the terminal.
func plain(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return -1
		}
		return r
	}, s)
}
