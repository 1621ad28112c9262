package textkit

import "strings"

// Truncate trims whitespace and caps the text at max runes, replacing the tail
// with an ellipsis when the input is longer
func Truncate(s string, max int) string {
	t := strings.TrimSpace(s)
	runes := []rune(t)
	if len(runes) <= max {
		return t
	}
	return string(runes[:max-1]) + "…"
}
