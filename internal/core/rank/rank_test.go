package rank_test

import (
	"reflect"
	"testing"

	"pulseboard/internal/core/rank"
)

func TestTop_CountDescFirstSeenAsc(t *testing.T) {
	c := rank.NewCounter()
	c.AddAll([]string{"b", "a", "b", "c", "a", "d"})

	got := c.Top(10)
	want := []rank.Item{
		{Key: "b", Count: 2, First: 0},
		{Key: "a", Count: 2, First: 1},
		{Key: "c", Count: 1, First: 3},
		{Key: "d", Count: 1, First: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Top = %v want %v", got, want)
	}
}

func TestTop_Cap(t *testing.T) {
	c := rank.NewCounter()
	c.AddAll([]string{"a", "b", "c", "d", "e"})
	if got := c.Top(2); len(got) != 2 {
		t.Fatalf("Top(2) length = %d", len(got))
	}
	if got := c.Top(0); len(got) != 0 {
		t.Fatalf("Top(0) length = %d", len(got))
	}
}

func TestTop_DeterministicAcrossRuns(t *testing.T) {
	feed := []string{"x", "y", "z", "y", "x", "w", "z", "x"}
	build := func() []rank.Item {
		c := rank.NewCounter()
		c.AddAll(feed)
		return c.Top(4)
	}
	first := build()
	for i := 0; i < 50; i++ {
		if got := build(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %v vs %v", i, got, first)
		}
	}
}

func TestLen(t *testing.T) {
	c := rank.NewCounter()
	c.AddAll([]string{"a", "a", "b"})
	if c.Len() != 2 {
		t.Fatalf("Len = %d want 2", c.Len())
	}
}
