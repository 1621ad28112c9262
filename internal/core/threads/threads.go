// Package threads derives the reply forest of a message window: direct-reply
// counts, top thread roots, and helper attribution by walking reply chains
package threads

import (
	"sort"

	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/textkit"
)

// maxChainDepth bounds a single parent walk so cyclic or absurdly deep
// reply chains terminate instead of looping
const maxChainDepth = 512

// Placeholder previews for unresolvable or empty roots
const (
	NoTextPreview        = "[no text]"
	OutsideWindowPreview = "[outside window/no text]"
)

// Thread is a ranked thread root with its direct reply count
type Thread struct {
	RootID  string `json:"root_id"`
	Replies int    `json:"replies"`
	Preview string `json:"root_preview"`
}

// Helper is an author credited for replying in threads they did not start
type Helper struct {
	AuthorID string `json:"author_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// Analyzer indexes one immutable window batch for thread queries
type Analyzer struct {
	msgs []chat.Message
	byID map[string]int // message id -> index into msgs

	rootIDs    []string       // distinct reply-to targets in first-seen order
	replyCount map[string]int // reply-to target -> direct replies in window
}

// New builds an analyzer over messages in ascending sent-at order
func New(msgs []chat.Message) *Analyzer {
	a := &Analyzer{
		msgs:       msgs,
		byID:       make(map[string]int, len(msgs)),
		replyCount: make(map[string]int),
	}
	for i, m := range msgs {
		a.byID[m.ID] = i
	}
	for _, m := range msgs {
		if m.ReplyTo == nil {
			continue
		}
		root := *m.ReplyTo
		if _, seen := a.replyCount[root]; !seen {
			a.rootIDs = append(a.rootIDs, root)
		}
		a.replyCount[root]++
	}
	return a
}

// ReplyCounts returns direct reply counts per reply-to target
func (a *Analyzer) ReplyCounts() map[string]int { return a.replyCount }

// RootIDs returns the distinct reply-to targets in first-seen order
func (a *Analyzer) RootIDs() []string { return a.rootIDs }

// HasReply reports whether any window message replies directly to id
func (a *Analyzer) HasReply(id string) bool { return a.replyCount[id] > 0 }

// TopThreads ranks reply-to targets by direct reply count. Root previews come
// from the supplied lookup (targets may live outside the window); missing
// entries fall back to a placeholder. Ties resolve by first-seen order
func (a *Analyzer) TopThreads(previews map[string]string, k, previewMax int) []Thread {
	order := make(map[string]int, len(a.rootIDs))
	for i, id := range a.rootIDs {
		order[id] = i
	}
	ids := append([]string(nil), a.rootIDs...)
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := a.replyCount[ids[i]], a.replyCount[ids[j]]
		if ci != cj {
			return ci > cj
		}
		return order[ids[i]] < order[ids[j]]
	})
	if len(ids) > k {
		ids = ids[:k]
	}
	out := make([]Thread, 0, len(ids))
	for _, id := range ids {
		preview := OutsideWindowPreview
		if p, ok := previews[id]; ok {
			preview = previewText(p, previewMax)
		}
		out = append(out, Thread{RootID: id, Replies: a.replyCount[id], Preview: preview})
	}
	return out
}

// TopThreadsInWindow ranks only targets whose root message is inside the
// window, previewing from the root's own text. Ties resolve by earliest root
func (a *Analyzer) TopThreadsInWindow(k, previewMax int) []Thread {
	var ids []string
	for _, id := range a.rootIDs {
		if _, ok := a.byID[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := a.replyCount[ids[i]], a.replyCount[ids[j]]
		if ci != cj {
			return ci > cj
		}
		mi, mj := a.msgs[a.byID[ids[i]]], a.msgs[a.byID[ids[j]]]
		return mi.SentAt.Before(mj.SentAt)
	})
	if len(ids) > k {
		ids = ids[:k]
	}
	out := make([]Thread, 0, len(ids))
	for _, id := range ids {
		root := a.msgs[a.byID[id]]
		out = append(out, Thread{
			RootID:  id,
			Replies: a.replyCount[id],
			Preview: previewText(root.TextOrEmpty(), previewMax),
		})
	}
	return out
}

// resolveRoot walks the parent chain of m to its ultimate root.
// A chain is discarded when a parent is missing from the window, the depth
// bound is hit, or a cycle is detected
func (a *Analyzer) resolveRoot(m chat.Message) (chat.Message, bool) {
	visited := map[string]struct{}{m.ID: {}}
	cur := m
	for depth := 0; depth < maxChainDepth; depth++ {
		if cur.ReplyTo == nil {
			return cur, true
		}
		idx, ok := a.byID[*cur.ReplyTo]
		if !ok {
			return chat.Message{}, false
		}
		next := a.msgs[idx]
		if _, seen := visited[next.ID]; seen {
			return chat.Message{}, false
		}
		visited[next.ID] = struct{}{}
		cur = next
	}
	return chat.Message{}, false
}

// TopHelpers credits one point per reply whose resolved root was written by a
// different author, aggregated per replying author and capped at k
func (a *Analyzer) TopHelpers(k int) []Helper {
	type agg struct {
		count  int
		first  int
		author chat.Author
	}
	credits := make(map[string]*agg)
	var order []string

	for i, m := range a.msgs {
		if m.ReplyTo == nil {
			continue
		}
		root, ok := a.resolveRoot(m)
		if !ok {
			continue
		}
		if root.AuthorID == m.AuthorID {
			continue
		}
		if c, seen := credits[m.AuthorID]; seen {
			c.count++
		} else {
			credits[m.AuthorID] = &agg{count: 1, first: i, author: m.Author}
			order = append(order, m.AuthorID)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		ci, cj := credits[order[i]], credits[order[j]]
		if ci.count != cj.count {
			return ci.count > cj.count
		}
		return ci.first < cj.first
	})
	if len(order) > k {
		order = order[:k]
	}
	out := make([]Helper, 0, len(order))
	for _, id := range order {
		c := credits[id]
		a := c.author
		if a.ID == "" {
			a.ID = id
		}
		out = append(out, Helper{AuthorID: id, Name: a.DisplayName(), Count: c.count})
	}
	return out
}

func previewText(s string, max int) string {
	t := textkit.Truncate(s, max)
	if t == "" {
		return NoTextPreview
	}
	return t
}
