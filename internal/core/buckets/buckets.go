// Package buckets produces zero-filled fixed-width activity series over a window
package buckets

import (
	"time"

	"pulseboard/internal/core/window"
)

// Unit is the bucket width
type Unit int

const (
	// Hour buckets for single-day windows
	Hour Unit = iota
	// Day buckets for multi-day windows
	Day
)

// UnitFor picks the bucket width: hours for an exact 24h window, days otherwise
func UnitFor(w window.Window) Unit {
	if w.IsDay() {
		return Hour
	}
	return Day
}

func (u Unit) width() time.Duration {
	if u == Hour {
		return time.Hour
	}
	return 24 * time.Hour
}

// truncate aligns t down to the unit boundary in UTC
func (u Unit) truncate(t time.Time) time.Time {
	t = t.UTC()
	if u == Hour {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Bucket is one fixed-width interval labeled with its UTC start
type Bucket struct {
	At    time.Time `json:"at"`
	Count int       `json:"cnt"`
}

// Series buckets the given instants over the window: labels aligned to since
// truncated to the unit, one bucket per width of window span, zero-filled.
// A 24h window always yields 24 hourly buckets, aligned or not. Instants
// outside the window are ignored
func Series(w window.Window, u Unit, times []time.Time) []Bucket {
	start := u.truncate(w.Since)
	width := u.width()

	span := w.Until.Sub(w.Since)
	n := int(span / width)
	if span%width != 0 {
		n++
	}
	out := make([]Bucket, n)
	index := make(map[time.Time]int, n)
	at := start
	for i := 0; i < n; i++ {
		out[i] = Bucket{At: at}
		index[at] = i
		at = at.Add(width)
	}

	for _, t := range times {
		if !w.Contains(t) {
			continue
		}
		if i, ok := index[u.truncate(t)]; ok {
			out[i].Count++
		}
	}
	return out
}

// Peak returns the bucket with the maximum count, earliest on ties.
// ok is false for an empty series
func Peak(series []Bucket) (Bucket, bool) {
	if len(series) == 0 {
		return Bucket{}, false
	}
	best := series[0]
	for _, b := range series[1:] {
		if b.Count > best.Count {
			best = b
		}
	}
	return best, true
}
