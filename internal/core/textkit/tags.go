package textkit

import (
	"regexp"
	"strings"
)

var (
	hashtagRe = regexp.MustCompile(`#[0-9A-Za-z_ёЁа-яА-Я]+`)
	mentionRe = regexp.MustCompile(`@[0-9A-Za-z_ёЁа-яА-Я]+`)
)

// Hashtags extracts lower-cased #tag tokens
func Hashtags(text *string) []string {
	return matchLower(hashtagRe, text)
}

// Mentions extracts lower-cased @name tokens
func Mentions(text *string) []string {
	return matchLower(mentionRe, text)
}

func matchLower(re *regexp.Regexp, text *string) []string {
	if text == nil {
		return nil
	}
	matches := re.FindAllString(*text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ToLower(m))
	}
	return out
}
