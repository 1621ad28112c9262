// Package service assembles the compact daily preview
package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pulseboard/internal/core/buckets"
	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/classify"
	"pulseboard/internal/core/rank"
	"pulseboard/internal/core/textkit"
	"pulseboard/internal/core/threads"
	"pulseboard/internal/core/window"
	"pulseboard/internal/modkit/repokit"
	perr "pulseboard/internal/platform/errors"
	str "pulseboard/internal/platform/strings"
	"pulseboard/internal/services/report/domain"
	"pulseboard/internal/services/report/repo"
	"pulseboard/internal/services/summarizer"
)

// Facet caps and export budget
const (
	capTopThreads    = 5
	capTopLinks      = 10
	capTopErrors     = 10
	capUnanswered    = 30
	previewMax       = 158
	unansweredMinAge = 12 * time.Hour

	// the export starts with the most recent 400 qualifying messages and
	// shrinks to 250 when the serialized payload exceeds ~18k approx tokens
	exportTake       = 400
	exportShrink     = 250
	exportTokenLimit = 18000
)

// Config for the report service
type Config struct {
	// DefaultChatID scopes previews when the request names no chat.
	// Empty falls through to the busiest chat in the window
	DefaultChatID string
}

// Service defines the report service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the report service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	cfg    Config

	now func() time.Time
}

// New constructs a report service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("report.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("report.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, cfg: cfg, now: time.Now}
}

// Preview builds the daily preview: window resolve, chat resolve, concurrent
// fetches, then the in-memory reduction passes and the capped message export
func (s *Svc) Preview(ctx context.Context, in domain.PreviewInput) (domain.Preview, error) {
	if in.Date == "" {
		return domain.Preview{}, perr.InvalidWindowf("date is required")
	}
	w, err := window.FromDate(in.Date)
	if err != nil {
		return domain.Preview{}, err
	}
	w = w.Override(in.SinceUTC, in.UntilUTC)

	chatID, err := s.resolveChat(ctx, w, in.ChatID)
	if err != nil {
		return domain.Preview{}, err
	}
	scope := window.Scope(chatID)

	var (
		wg     sync.WaitGroup
		kpiRow repo.KPIRow
		batch  []chat.Message

		kpiErr, batchErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		kpiRow, kpiErr = s.Repo.KPI(ctx, w, scope)
	}()
	go func() {
		defer wg.Done()
		batch, batchErr = s.Repo.Batch(ctx, w, scope)
	}()
	wg.Wait()
	if kpiErr != nil {
		return domain.Preview{}, kpiErr
	}
	if batchErr != nil {
		return domain.Preview{}, batchErr
	}

	now := s.now().UTC()

	links := rank.NewCounter()
	errTokens := rank.NewCounter()
	sentAts := make([]time.Time, 0, len(batch))
	for _, m := range batch {
		links.AddAll(textkit.NormalizedLinks(m.Text))
		errTokens.AddAll(textkit.ErrorTokens(m.Text))
		sentAts = append(sentAts, m.SentAt)
	}

	hourly := buckets.Series(w, buckets.Hour, sentAts)
	peakHour := "00:00"
	if peak, ok := buckets.Peak(hourly); ok {
		peakHour = peak.At.Format("15:04")
	}

	kpi := domain.KPI{
		TotalMsgs:   kpiRow.TotalMsgs,
		UniqueUsers: kpiRow.UniqueUsers,
		Replies:     kpiRow.Replies,
		WithLinks:   kpiRow.WithLinks,
		PeakHourUTC: peakHour,
		WindowUTC:   [2]string{w.Since.Format(time.RFC3339), w.Until.Format(time.RFC3339)},
	}
	if kpi.UniqueUsers > 0 {
		kpi.AvgPerUser = float64(kpi.TotalMsgs) / float64(kpi.UniqueUsers)
	}

	analyzer := threads.New(batch)

	var metaChat *string
	if scope.Enabled() {
		metaChat = str.Ptr(scope.ChatID())
	}

	return domain.Preview{
		KPI:        kpi,
		Hourly:     hourly,
		TopThreads: analyzer.TopThreadsInWindow(capTopThreads, previewMax),
		Unanswered: classify.UnansweredQuestions(
			batch, analyzer.HasReply, now, unansweredMinAge, capUnanswered, previewMax,
		),
		TopLinks:  linkCounts(links.Top(capTopLinks)),
		TopErrors: tokenCounts(errTokens.Top(capTopErrors)),
		Messages:  exportMessages(batch, kpi.WindowUTC),
		Meta: domain.Meta{
			Date:         in.Date,
			ChatID:       metaChat,
			GeneratedAt:  now.Format(time.RFC3339),
			GenerationID: uuid.NewString(),
		},
	}, nil
}

// resolveChat picks the scope: explicit param, configured default, then the
// busiest chat inside the window
func (s *Svc) resolveChat(ctx context.Context, w window.Window, explicit string) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(s.cfg.DefaultChatID); v != "" {
		return v, nil
	}
	return s.Repo.TopChat(ctx, w)
}

// exportMessages builds the size-capped raw export: non-empty-text messages in
// chronological order, most recent exportTake, shrunk to exportShrink when the
// serialized messages-only payload runs over budget
func exportMessages(batch []chat.Message, windowUTC [2]string) []domain.ExportedMessage {
	var withText []chat.Message
	for _, m := range batch {
		if m.HasText() {
			withText = append(withText, m)
		}
	}
	out := exportSlice(withText, exportTake)
	if approxTokens(out, windowUTC) > exportTokenLimit {
		out = exportSlice(withText, exportShrink)
	}
	return out
}

func exportSlice(msgs []chat.Message, take int) []domain.ExportedMessage {
	if len(msgs) > take {
		msgs = msgs[len(msgs)-take:]
	}
	out := make([]domain.ExportedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, domain.ExportedMessage{
			ID:      m.ID,
			UserID:  m.AuthorID,
			SentAt:  m.SentAt.Format(time.RFC3339),
			Text:    m.Text,
			ReplyTo: m.ReplyTo,
			Author:  m.Author.DisplayName(),
		})
	}
	return out
}

// approxTokens estimates the model token count of the messages-only payload
// as serialized length over four
func approxTokens(msgs []domain.ExportedMessage, windowUTC [2]string) int {
	minimal := struct {
		KPI struct {
			WindowUTC [2]string `json:"window_utc"`
		} `json:"kpi"`
		Messages []domain.ExportedMessage `json:"messages"`
	}{Messages: msgs}
	minimal.KPI.WindowUTC = windowUTC
	raw, _ := json.Marshal(minimal)
	return len(raw) / 4
}

// ExportInput converts a preview into the summarizer's messages-only payload
func ExportInput(p domain.Preview) summarizer.Input {
	msgs := make([]summarizer.Message, 0, len(p.Messages))
	for _, m := range p.Messages {
		msgs = append(msgs, summarizer.Message{
			ID:      m.ID,
			Author:  m.Author,
			Text:    str.Deref(m.Text),
			ReplyTo: m.ReplyTo,
			SentAt:  m.SentAt,
		})
	}
	return summarizer.Input{Date: p.Meta.Date, WindowUTC: p.KPI.WindowUTC, Messages: msgs}
}

func linkCounts(items []rank.Item) []domain.LinkCount {
	out := make([]domain.LinkCount, 0, len(items))
	for _, it := range items {
		out = append(out, domain.LinkCount{URL: it.Key, Cnt: it.Count})
	}
	return out
}

func tokenCounts(items []rank.Item) []domain.TokenCount {
	out := make([]domain.TokenCount, 0, len(items))
	for _, it := range items {
		out = append(out, domain.TokenCount{Token: it.Key, Cnt: it.Count})
	}
	return out
}
