package window_test

import (
	"testing"
	"time"

	"pulseboard/internal/core/window"
	perr "pulseboard/internal/platform/errors"
)

func TestFromDate_MidnightUTCDay(t *testing.T) {
	w, err := window.FromDate("2025-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !w.Since.Equal(want) {
		t.Fatalf("since = %v want %v", w.Since, want)
	}
	if !w.Until.Equal(want.Add(24 * time.Hour)) {
		t.Fatalf("until = %v want %v", w.Until, want.Add(24*time.Hour))
	}
	if !w.IsDay() {
		t.Fatalf("expected a 24h window")
	}
}

func TestFromDate_RejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "10-03-2025", "2025-13-40", "yesterday"} {
		if _, err := window.FromDate(raw); !perr.IsCode(err, perr.ErrorCodeInvalidWindow) {
			t.Fatalf("FromDate(%q) expected invalid window, got %v", raw, err)
		}
	}
}

func TestFromBounds_RejectsInvertedRange(t *testing.T) {
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if _, err := window.FromBounds(at, at); !perr.IsCode(err, perr.ErrorCodeInvalidWindow) {
		t.Fatalf("expected invalid window for until == since, got %v", err)
	}
	if _, err := window.FromBounds(at, at.Add(-time.Hour)); !perr.IsCode(err, perr.ErrorCodeInvalidWindow) {
		t.Fatalf("expected invalid window for until < since, got %v", err)
	}
}

func TestFromDays_RangeAndSpan(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	for _, days := range []int{0, -1, 31} {
		if _, err := window.FromDays(days, now); !perr.IsCode(err, perr.ErrorCodeInvalidWindow) {
			t.Fatalf("FromDays(%d) expected invalid window, got %v", days, err)
		}
	}
	w, err := window.FromDays(7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Span() != 7*24*time.Hour {
		t.Fatalf("span = %v want %v", w.Span(), 7*24*time.Hour)
	}
	if !w.Until.Equal(now) {
		t.Fatalf("until = %v want %v", w.Until, now)
	}
}

func TestOverride_AppliedOnlyWhenBothBoundsParse(t *testing.T) {
	base, err := window.FromDate("2025-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := base.Override("2025-03-09T06:00:00Z", "2025-03-10T06:00:00Z")
	if got.Since.Format(time.RFC3339) != "2025-03-09T06:00:00Z" {
		t.Fatalf("override not applied, since = %v", got.Since)
	}

	// kept unchanged on partial, malformed, or inverted bounds
	for _, tc := range [][2]string{
		{"2025-03-09T06:00:00Z", ""},
		{"", "2025-03-10T06:00:00Z"},
		{"not-a-time", "2025-03-10T06:00:00Z"},
		{"2025-03-10T06:00:00Z", "2025-03-10T06:00:00Z"},
		{"2025-03-10T06:00:00Z", "2025-03-09T06:00:00Z"},
	} {
		got := base.Override(tc[0], tc[1])
		if got != base {
			t.Fatalf("Override(%q, %q) changed the window", tc[0], tc[1])
		}
	}
}

func TestContains_HalfOpen(t *testing.T) {
	w, _ := window.FromDate("2025-03-10")
	if !w.Contains(w.Since) {
		t.Fatalf("since must be inside")
	}
	if w.Contains(w.Until) {
		t.Fatalf("until must be outside")
	}
}

func TestScope_AllAndEmptyDisable(t *testing.T) {
	for _, raw := range []string{"", "all", "ALL", " All ", "  "} {
		s := window.Scope(raw)
		if s.Enabled() {
			t.Fatalf("Scope(%q) should be disabled", raw)
		}
		if s.ChatID() != "" {
			t.Fatalf("Scope(%q).ChatID() = %q want empty", raw, s.ChatID())
		}
	}
	s := window.Scope(" -100123 ")
	if !s.Enabled() {
		t.Fatalf("numeric scope should be enabled")
	}
	if s.ChatID() != "-100123" {
		t.Fatalf("ChatID = %q want -100123", s.ChatID())
	}
}
