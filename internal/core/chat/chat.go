// Package chat holds the immutable message and author snapshots the engine works on
package chat

import "time"

// Author is a message author snapshot
// blank or whitespace-only fields are normalized to nil at the fetch boundary
type Author struct {
	ID        string
	Username  *string
	FirstName *string
	LastName  *string
}

// Message is one chat message inside an aggregation window
// ReplyTo may reference a message outside the window or one that does not exist
type Message struct {
	ID       string
	ChatID   string
	AuthorID string
	SentAt   time.Time
	Text     *string
	ReplyTo  *string

	Author Author
}

// DisplayName resolves the human-readable author string
// "First Last (@username)" when both parts exist, else whichever is present,
// else a synthetic id fallback
func (a Author) DisplayName() string {
	username := ""
	if a.Username != nil && *a.Username != "" {
		username = *a.Username
		if username[0] != '@' {
			username = "@" + username
		}
	}
	full := ""
	if a.FirstName != nil && *a.FirstName != "" {
		full = *a.FirstName
	}
	if a.LastName != nil && *a.LastName != "" {
		if full != "" {
			full += " " + *a.LastName
		} else {
			full = *a.LastName
		}
	}
	switch {
	case full != "" && username != "":
		return full + " (" + username + ")"
	case username != "":
		return username
	case full != "":
		return full
	default:
		return "id:" + a.ID
	}
}

// TextOrEmpty returns the message text or "" when absent
func (m Message) TextOrEmpty() string {
	if m.Text == nil {
		return ""
	}
	return *m.Text
}

// HasText reports whether the message carries non-blank text
func (m Message) HasText() bool {
	if m.Text == nil {
		return false
	}
	for _, r := range *m.Text {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
