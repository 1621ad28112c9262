// Package domain holds DTOs for the overview http and service contracts
package domain

import (
	"pulseboard/internal/core/buckets"
	"pulseboard/internal/core/classify"
	"pulseboard/internal/core/threads"
)

// Input selects the aggregation window and optional chat scope
// Date wins over Days when both are present
type Input struct {
	Days   int    // rolling window ending now, 1..30
	Date   string // calendar day, 2006-01-02
	ChatID string // "" or "all" means no scope
}

// KPI carries the window counters
type KPI struct {
	TotalMsgs   int     `json:"total_msgs"`
	UniqueUsers int     `json:"unique_users"`
	AvgPerUser  float64 `json:"avg_per_user"`
	Replies     int     `json:"replies"`
	WithLinks   int     `json:"with_links"`
}

// UserCount is one ranked author with resolved display name
type UserCount struct {
	User string `json:"user"`
	Cnt  int    `json:"cnt"`
}

// LinkCount is one ranked link
type LinkCount struct {
	URL string `json:"url"`
	Cnt int    `json:"cnt"`
}

// WordCount is one ranked word
type WordCount struct {
	Word string `json:"word"`
	Cnt  int    `json:"cnt"`
}

// TagCount is one ranked hashtag or mention
type TagCount struct {
	Tag string `json:"tag"`
	Cnt int    `json:"cnt"`
}

// ChatCount is one chat ranked by message count in the window
type ChatCount struct {
	ChatID string `json:"chat_id"`
	Title  string `json:"title"`
	Cnt    int    `json:"cnt"`
}

// Report is the full multi-facet overview payload
type Report struct {
	KPI            KPI                   `json:"kpi"`
	Hourly         []buckets.Bucket      `json:"hourly"`
	Daily          []buckets.Bucket      `json:"daily"`
	TopUsers       []UserCount           `json:"top_users"`
	TopLinks       []LinkCount           `json:"top_links"`
	TopWords       []WordCount           `json:"top_words"`
	Hashtags       []TagCount            `json:"hashtags"`
	Mentions       []TagCount            `json:"mentions"`
	TopThreads     []threads.Thread      `json:"top_threads"`
	TopHelpers     []threads.Helper      `json:"top_helpers"`
	Unanswered     []classify.Unanswered `json:"unanswered"`
	Artifacts      []classify.Artifact   `json:"artifacts"`
	Chats          []ChatCount           `json:"chats,omitempty"`
	Since          string                `json:"since"`
	Until          string                `json:"until"`
	WindowDays     int                   `json:"window_days"`
	SummaryBullets []string              `json:"summary_bullets"`
}
