// Package textkit provides pure token extractors over optional message text
package textkit

import (
	"net/url"
	"regexp"
	"strings"
)

var linkRe = regexp.MustCompile(`https?://\S+`)

// stripTrailing removes repeated trailing punctuation that commonly glues to pasted links
func stripTrailing(s string) string {
	return strings.TrimRight(s, "),.;!?")
}

// Links extracts link tokens: maximal non-whitespace runs starting with the
// http(s) scheme, with trailing punctuation stripped
func Links(text *string) []string {
	if text == nil {
		return nil
	}
	matches := linkRe.FindAllString(*text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if v := stripTrailing(m); v != "" {
			out = append(out, v)
		}
	}
	return out
}

var httpPrefixRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL canonicalizes a link: lower-cases scheme and host, drops default
// ports, strips a single trailing slash from a non-root path. Strings that fail
// structural parsing are kept only when they still carry the http(s) prefix.
// Returns "" for anything else. Idempotent
func NormalizeURL(raw string) string {
	u := stripTrailing(strings.TrimSpace(raw))
	if u == "" {
		return ""
	}
	parsed, err := url.Parse(u)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		if httpPrefixRe.MatchString(u) {
			return u
		}
		return ""
	}

	scheme := strings.ToLower(parsed.Scheme)
	host := strings.ToLower(parsed.Hostname())
	port := parsed.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	hostPart := host
	if port != "" {
		hostPart += ":" + port
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(hostPart)
	b.WriteString(path)
	if parsed.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(parsed.RawQuery)
	}
	if parsed.Fragment != "" {
		b.WriteString("#")
		b.WriteString(parsed.Fragment)
	}
	return b.String()
}

// NormalizedLinks extracts links and canonicalizes each, dropping unparseables
func NormalizedLinks(text *string) []string {
	raw := Links(text)
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if n := NormalizeURL(l); n != "" {
			out = append(out, n)
		}
	}
	return out
}
