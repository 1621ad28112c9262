// Package domain holds DTOs for the daily report http and service contracts
package domain

import (
	"pulseboard/internal/core/buckets"
	"pulseboard/internal/core/classify"
	"pulseboard/internal/core/digest"
	"pulseboard/internal/core/threads"
)

// PreviewInput selects the report day, chat scope, and optional window override
type PreviewInput struct {
	Date     string // required, 2006-01-02
	ChatID   string // optional explicit scope
	SinceUTC string // optional RFC3339 override, applied only with UntilUTC
	UntilUTC string
}

// KPI carries the preview counters plus derived window facts
type KPI struct {
	TotalMsgs   int       `json:"total_msgs"`
	UniqueUsers int       `json:"unique_users"`
	AvgPerUser  float64   `json:"avg_per_user"`
	Replies     int       `json:"replies"`
	WithLinks   int       `json:"with_links"`
	PeakHourUTC string    `json:"peak_hour_utc"`
	WindowUTC   [2]string `json:"window_utc"`
}

// LinkCount is one ranked normalized link
type LinkCount struct {
	URL string `json:"url"`
	Cnt int    `json:"cnt"`
}

// TokenCount is one ranked error token
type TokenCount struct {
	Token string `json:"token"`
	Cnt   int    `json:"cnt"`
}

// ExportedMessage is one raw message in the size-capped summarizer export
type ExportedMessage struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user_id"`
	SentAt  string  `json:"sent_at"`
	Text    *string `json:"text"`
	ReplyTo *string `json:"reply_to"`
	Author  string  `json:"author,omitempty"`
}

// Meta stamps provenance onto a generated preview
type Meta struct {
	Date         string  `json:"date"`
	ChatID       *string `json:"chat_id"`
	GeneratedAt  string  `json:"generated_at"`
	GenerationID string  `json:"generation_id"`
}

// Preview is the compact daily payload fed to the summarizer
type Preview struct {
	KPI        KPI                   `json:"kpi"`
	Hourly     []buckets.Bucket      `json:"hourly"`
	TopThreads []threads.Thread      `json:"top_threads"`
	Unanswered []classify.Unanswered `json:"unanswered"`
	TopLinks   []LinkCount           `json:"top_links"`
	TopErrors  []TokenCount          `json:"top_errors"`
	Messages   []ExportedMessage     `json:"messages,omitempty"`
	Meta       Meta                  `json:"meta"`
}

// DigestOutput pairs the validated digest document with its rendered text
type DigestOutput struct {
	JSON     digest.Digest `json:"json"`
	Markdown string        `json:"markdown"`
}

// InsightsOutput is the free-form digest text
type InsightsOutput struct {
	Markdown string `json:"markdown"`
}
