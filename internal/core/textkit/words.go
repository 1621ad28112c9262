package textkit

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// wordRune reports whether r belongs to a word token after lower-casing
func wordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= 'а' && r <= 'я':
		return true
	case r == 'ё':
		return true
	}
	return false
}

// Words tokenizes into lower-cased runs of Latin/Cyrillic letters and digits,
// keeping tokens of at least three runes that are not stopwords
func Words(text *string) []string {
	if text == nil {
		return nil
	}
	lowered := strings.ToLower(norm.NFC.String(*text))

	var out []string
	var cur []rune
	flush := func() {
		if len(cur) >= 3 {
			w := string(cur)
			if _, stop := stopwords[w]; !stop {
				out = append(out, w)
			}
		}
		cur = cur[:0]
	}
	for _, r := range lowered {
		if wordRune(r) {
			cur = append(cur, r)
			continue
		}
		flush()
	}
	flush()
	return out
}
