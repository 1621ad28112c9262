package textkit

import (
	"regexp"
	"strings"
)

var (
	errTokenRe = regexp.MustCompile(`[A-Z_]{3,}|(?i:error|exception|forbidden|timeout|rate\s*limit)|429|403`)
	allCapsRe  = regexp.MustCompile(`^[A-Z_]{3,}$`)
)

// ErrorTokens extracts error-signature tokens: runs of three or more uppercase
// letters/underscores kept verbatim; known failure words and status codes
// lower-cased
func ErrorTokens(text *string) []string {
	if text == nil {
		return nil
	}
	matches := errTokenRe.FindAllString(*text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if allCapsRe.MatchString(m) {
			out = append(out, m)
			continue
		}
		out = append(out, strings.ToLower(m))
	}
	return out
}
