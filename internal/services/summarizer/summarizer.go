// Package summarizer talks to the external language model that turns a daily
// message export into a structured digest or free-form insights text
package summarizer

import (
	"context"

	"pulseboard/internal/core/digest"
)

// Message is one exported chat message handed to the model
type Message struct {
	ID      string  `json:"id"`
	Author  string  `json:"author"`
	Text    string  `json:"text"`
	ReplyTo *string `json:"reply_to"`
	SentAt  string  `json:"sent_at"`
}

// Input is the messages-only payload for one generation call
type Input struct {
	Date      string    `json:"date"`
	WindowUTC [2]string `json:"window_utc"`
	Messages  []Message `json:"messages"`
}

// Digester is the summarizer port consumed by the report transport layer.
// Neither call is retried here; retry policy belongs to the caller
type Digester interface {
	// Digest returns the schema-validated structured digest
	Digest(ctx context.Context, in Input) (digest.Digest, error)

	// Insights returns a free-form markdown block
	Insights(ctx context.Context, in Input) (string, error)
}
