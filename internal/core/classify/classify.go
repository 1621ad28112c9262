// Package classify holds the heuristic message classifiers: question
// detection, unanswered-question selection, and shareable-artifact detection
package classify

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/textkit"
)

// questionTriggers are substrings that mark a message as a candidate question
// data, not logic
var questionTriggers = []string{
	"как",
	"почему",
	"зачем",
	"ошибк",
	"не работает",
	"подскаж",
	"help",
	"how do",
	"why",
}

// artifactHosts are hosting and deploy domains that mark a link as a
// shareable deliverable; matched as exact host or dot-suffix
var artifactHosts = []string{
	"github.com",
	"gitlab.com",
	"bitbucket.org",
	"vercel.app",
	"netlify.app",
	"pages.dev",
	"herokuapp.com",
	"fly.dev",
	"render.com",
	"surge.sh",
	"github.io",
}

const fencedCodeMarker = "```"

// IsQuestion reports whether text looks like a question: a question mark or
// any trigger substring, case-insensitive
func IsQuestion(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	lowered := strings.ToLower(text)
	for _, t := range questionTriggers {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}

// Unanswered is a root question nobody replied to
type Unanswered struct {
	ID      string `json:"id"`
	Hours   int    `json:"hours"`
	Preview string `json:"preview"`
}

// hasReply reports whether any window message replies directly to id
type hasReply func(id string) bool

// UnansweredQuestions selects root questions with no in-window reply that have
// been waiting at least minAge, sorted by waiting hours descending, capped
func UnansweredQuestions(
	msgs []chat.Message,
	answered hasReply,
	now time.Time,
	minAge time.Duration,
	k, previewMax int,
) []Unanswered {
	var out []Unanswered
	for _, m := range msgs {
		if m.ReplyTo != nil || !m.HasText() {
			continue
		}
		if !IsQuestion(m.TextOrEmpty()) {
			continue
		}
		if answered(m.ID) {
			continue
		}
		age := now.Sub(m.SentAt)
		if age < minAge {
			continue
		}
		out = append(out, Unanswered{
			ID:      m.ID,
			Hours:   int(age.Hours()),
			Preview: textkit.Truncate(m.TextOrEmpty(), previewMax),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hours > out[j].Hours })
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Artifact is a message signaling a shareable deliverable
type Artifact struct {
	ID      string `json:"id"`
	URL     string `json:"url,omitempty"`
	HasCode bool   `json:"has_code,omitempty"`
	Preview string `json:"preview"`
}

// Artifacts collects messages carrying a hosting-domain link or a fenced code
// block, in chronological scan order, capped at k
func Artifacts(msgs []chat.Message, k, previewMax int) []Artifact {
	var out []Artifact
	for _, m := range msgs {
		if len(out) >= k {
			break
		}
		if !m.HasText() {
			continue
		}
		text := m.TextOrEmpty()

		artifactURL := ""
		for _, link := range textkit.Links(&text) {
			if isArtifactHost(link) {
				artifactURL = link
				break
			}
		}
		hasCode := strings.Contains(text, fencedCodeMarker)
		if artifactURL == "" && !hasCode {
			continue
		}
		out = append(out, Artifact{
			ID:      m.ID,
			URL:     artifactURL,
			HasCode: artifactURL == "" && hasCode,
			Preview: textkit.Truncate(text, previewMax),
		})
	}
	return out
}

func isArtifactHost(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	for _, h := range artifactHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
