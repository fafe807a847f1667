package internal

import (
	"strings"
)

// ProgressBar returns an ASCII progress bar string for the given percentage.
// The width parameter specifies the inner width of the bar (excluding brackets).
// Percentage values are clamped to 0-100.
//
// Example: ProgressBar(50, 20) returns "[==========          ]"
func ProgressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := (percent * width) / 100

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(strings.Repeat("=", filled))
	sb.WriteString(strings.Repeat(" ", width-filled))
	sb.WriteString("]")

	return sb.String()
}

// Percent returns done as a whole percentage of total. An empty total is 0%.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}

// Checkbox renders a completion marker.
func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// UniquePrefixes returns, for each id, the shortest prefix of at least min
// characters that no other id in the list shares.
func UniquePrefixes(ids []string, min int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		n := min
		if n > len(id) {
			n = len(id)
		}
		for n < len(id) && sharesPrefix(ids, i, id[:n]) {
			n++
		}
		out[i] = id[:n]
	}
	return out
}

func sharesPrefix(ids []string, self int, prefix string) bool {
	for j, other := range ids {
		if j != self && strings.HasPrefix(other, prefix) {
			return true
		}
	}
	return false
}
