// Package window resolves calendar dates and explicit bounds into half-open UTC ranges
package window

import (
	"strings"
	"time"

	perr "pulseboard/internal/platform/errors"
)

// Window is a half-open UTC range [Since, Until)
type Window struct {
	Since time.Time
	Until time.Time
}

// DateLayout is the accepted calendar date form
const DateLayout = "2006-01-02"

// FromDate resolves a calendar date into the 24h UTC window starting at midnight
func FromDate(date string) (Window, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return Window{}, perr.InvalidWindowf("invalid date %q", date)
	}
	since := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Since: since, Until: since.Add(24 * time.Hour)}, nil
}

// FromBounds validates explicit bounds
func FromBounds(since, until time.Time) (Window, error) {
	if !until.After(since) {
		return Window{}, perr.InvalidWindowf("until must be after since")
	}
	return Window{Since: since.UTC(), Until: until.UTC()}, nil
}

// FromDays resolves a rolling window of n days ending at now
func FromDays(days int, now time.Time) (Window, error) {
	if days < 1 || days > 30 {
		return Window{}, perr.InvalidWindowf("days must be between 1 and 30, got %d", days)
	}
	until := now.UTC()
	return Window{Since: until.Add(-time.Duration(days) * 24 * time.Hour), Until: until}, nil
}

// Override replaces the window with explicit RFC3339 bounds when both parse
// and until > since; otherwise the original window is kept unchanged
func (w Window) Override(sinceRaw, untilRaw string) Window {
	if sinceRaw == "" || untilRaw == "" {
		return w
	}
	s, errS := time.Parse(time.RFC3339, sinceRaw)
	u, errU := time.Parse(time.RFC3339, untilRaw)
	if errS != nil || errU != nil || !u.After(s) {
		return w
	}
	return Window{Since: s.UTC(), Until: u.UTC()}
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Since) && t.Before(w.Until)
}

// Span returns the window length
func (w Window) Span() time.Duration { return w.Until.Sub(w.Since) }

// IsDay reports whether the window is exactly 24 hours
func (w Window) IsDay() bool { return w.Span() == 24*time.Hour }

// Scope is an optional chat filter; "" or "all" (any case) disables it
type Scope string

// Enabled reports whether the scope restricts to one chat
func (s Scope) Enabled() bool {
	v := strings.TrimSpace(string(s))
	return v != "" && !strings.EqualFold(v, "all")
}

// ChatID returns the trimmed chat id, empty when the scope is disabled
func (s Scope) ChatID() string {
	if !s.Enabled() {
		return ""
	}
	return strings.TrimSpace(string(s))
}
