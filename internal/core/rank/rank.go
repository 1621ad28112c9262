// Package rank provides a deterministic frequency reducer for token streams
package rank

import "sort"

// Item is one ranked key with its count and first-seen sequence
type Item struct {
	Key   string
	Count int
	First int
}

type entry struct {
	count int
	first int
}

// Counter accumulates tokens in chronological feed order.
// Ordering is count descending with ties broken by first-seen ascending,
// so results never depend on map iteration order
type Counter struct {
	counts map[string]*entry
	seq    int
}

// NewCounter returns an empty counter
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]*entry)}
}

// Add records one occurrence of key
func (c *Counter) Add(key string) {
	if e, ok := c.counts[key]; ok {
		e.count++
	} else {
		c.counts[key] = &entry{count: 1, first: c.seq}
	}
	c.seq++
}

// AddAll records each token in order
func (c *Counter) AddAll(keys []string) {
	for _, k := range keys {
		c.Add(k)
	}
}

// Len returns the number of distinct keys seen
func (c *Counter) Len() int { return len(c.counts) }

// Top returns up to k items sorted by count descending, first-seen ascending
func (c *Counter) Top(k int) []Item {
	out := make([]Item, 0, len(c.counts))
	for key, e := range c.counts {
		out = append(out, Item{Key: key, Count: e.count, First: e.first})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].First < out[j].First
	})
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
