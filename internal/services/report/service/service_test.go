package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/window"
	"pulseboard/internal/modkit/repokit"
	perr "pulseboard/internal/platform/errors"
	"pulseboard/internal/services/report/domain"
	"pulseboard/internal/services/report/repo"
)

type fakeRunner struct{}

func (fakeRunner) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	return nil, nil
}
func (fakeRunner) Query(context.Context, string, ...any) (repokit.Rows, error) { return nil, nil }
func (fakeRunner) QueryRow(context.Context, string, ...any) repokit.Row        { return nil }
func (fakeRunner) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	return fn(fakeRunner{})
}

type fakeRepo struct {
	kpi     repo.KPIRow
	batch   []chat.Message
	topChat string

	scopeSeen      window.Scope
	windowSeen     window.Window
	topChatQueried bool
}

func (f *fakeRepo) KPI(_ context.Context, w window.Window, scope window.Scope) (repo.KPIRow, error) {
	f.windowSeen = w
	f.scopeSeen = scope
	return f.kpi, nil
}

func (f *fakeRepo) Batch(context.Context, window.Window, window.Scope) ([]chat.Message, error) {
	return f.batch, nil
}

func (f *fakeRepo) TopChat(context.Context, window.Window) (string, error) {
	f.topChatQueried = true
	return f.topChat, nil
}

func newSvc(f *fakeRepo, cfg Config, now time.Time) *Svc {
	s := New(fakeRunner{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f }), cfg)
	s.now = func() time.Time { return now }
	return s
}

func ptr(s string) *string { return &s }

func batchOf(n int, text string) []chat.Message {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	out := make([]chat.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, chat.Message{
			ID:       fmt.Sprintf("m%d", i),
			ChatID:   "c1",
			AuthorID: "7",
			SentAt:   day.Add(time.Duration(i) * time.Minute),
			Text:     ptr(text),
			Author:   chat.Author{ID: "7", Username: ptr("alice")},
		})
	}
	return out
}

func TestPreview_RequiresDate(t *testing.T) {
	s := newSvc(&fakeRepo{}, Config{}, time.Now())
	_, err := s.Preview(context.Background(), domain.PreviewInput{})
	if !perr.IsCode(err, perr.ErrorCodeInvalidWindow) {
		t.Fatalf("err = %v want invalid window", err)
	}
}

func TestPreview_ChatResolutionChain(t *testing.T) {
	now := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	// explicit chat wins over the configured default
	f := &fakeRepo{batch: batchOf(1, "привет")}
	s := newSvc(f, Config{DefaultChatID: "-100999"}, now)
	p, err := s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10", ChatID: " -100123 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.scopeSeen.ChatID() != "-100123" || f.topChatQueried {
		t.Fatalf("scope = %q topChatQueried = %v", f.scopeSeen.ChatID(), f.topChatQueried)
	}
	if p.Meta.ChatID == nil || *p.Meta.ChatID != "-100123" {
		t.Fatalf("meta chat = %v", p.Meta.ChatID)
	}

	// configured default next
	f = &fakeRepo{batch: batchOf(1, "привет")}
	s = newSvc(f, Config{DefaultChatID: "-100999"}, now)
	if _, err := s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.scopeSeen.ChatID() != "-100999" || f.topChatQueried {
		t.Fatalf("scope = %q topChatQueried = %v", f.scopeSeen.ChatID(), f.topChatQueried)
	}

	// busiest chat in the window as the last resort
	f = &fakeRepo{batch: batchOf(1, "привет"), topChat: "-100777"}
	s = newSvc(f, Config{}, now)
	if _, err := s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.topChatQueried || f.scopeSeen.ChatID() != "-100777" {
		t.Fatalf("scope = %q topChatQueried = %v", f.scopeSeen.ChatID(), f.topChatQueried)
	}

	// empty window: no chat at all, preview stays unscoped
	f = &fakeRepo{}
	s = newSvc(f, Config{}, now)
	p, err = s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.scopeSeen.Enabled() || p.Meta.ChatID != nil {
		t.Fatalf("expected unscoped preview, meta chat = %v", p.Meta.ChatID)
	}
}

func TestPreview_WindowOverride(t *testing.T) {
	f := &fakeRepo{batch: batchOf(1, "привет")}
	s := newSvc(f, Config{DefaultChatID: "c1"}, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))

	p, err := s.Preview(context.Background(), domain.PreviewInput{
		Date:     "2025-03-10",
		SinceUTC: "2025-03-10T06:00:00Z",
		UntilUTC: "2025-03-10T18:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [2]string{"2025-03-10T06:00:00Z", "2025-03-10T18:00:00Z"}
	if p.KPI.WindowUTC != want {
		t.Fatalf("window = %v want %v", p.KPI.WindowUTC, want)
	}
	if len(p.Hourly) != 12 {
		t.Fatalf("hourly buckets = %d want 12", len(p.Hourly))
	}
}

func TestPreview_PeakHourAndKPI(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	batch := []chat.Message{
		{ID: "1", AuthorID: "7", SentAt: day.Add(14 * time.Hour), Text: ptr("раз")},
		{ID: "2", AuthorID: "7", SentAt: day.Add(14*time.Hour + 10*time.Minute), Text: ptr("два")},
		{ID: "3", AuthorID: "8", SentAt: day.Add(9 * time.Hour), Text: ptr("три")},
	}
	f := &fakeRepo{kpi: repo.KPIRow{TotalMsgs: 3, UniqueUsers: 2, Replies: 0, WithLinks: 0}, batch: batch}
	s := newSvc(f, Config{DefaultChatID: "c1"}, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))

	p, err := s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.KPI.PeakHourUTC != "14:00" {
		t.Fatalf("peak hour = %q want 14:00", p.KPI.PeakHourUTC)
	}
	if p.KPI.AvgPerUser != 1.5 {
		t.Fatalf("avg per user = %v want 1.5", p.KPI.AvgPerUser)
	}
}

func TestPreview_ExportCapsAndShrinks(t *testing.T) {
	now := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	// small batch exports whole
	f := &fakeRepo{batch: batchOf(10, "короткое сообщение")}
	s := newSvc(f, Config{DefaultChatID: "c1"}, now)
	p, err := s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Messages) != 10 {
		t.Fatalf("exported = %d want 10", len(p.Messages))
	}

	// oversized payload shrinks to the tighter cap, keeping the most recent
	long := strings.Repeat("я", 200)
	f = &fakeRepo{batch: batchOf(500, long)}
	s = newSvc(f, Config{DefaultChatID: "c1"}, now)
	p, err = s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Messages) != 250 {
		t.Fatalf("exported = %d want 250", len(p.Messages))
	}
	if p.Messages[len(p.Messages)-1].ID != "m499" {
		t.Fatalf("export must keep the most recent messages, last = %s", p.Messages[len(p.Messages)-1].ID)
	}

	// blank-text messages never export
	blank := batchOf(3, "текст")
	blank[1].Text = ptr("   ")
	f = &fakeRepo{batch: blank}
	s = newSvc(f, Config{DefaultChatID: "c1"}, now)
	p, err = s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Messages) != 2 {
		t.Fatalf("exported = %d want 2", len(p.Messages))
	}
}

func TestPreview_LinkAndErrorFacets(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	batch := []chat.Message{
		{ID: "1", AuthorID: "7", SentAt: day.Add(time.Hour), Text: ptr("см. https://github.com/acme/demo/")},
		{ID: "2", AuthorID: "8", SentAt: day.Add(2 * time.Hour), Text: ptr("опять https://github.com/acme/demo")},
		{ID: "3", AuthorID: "9", SentAt: day.Add(3 * time.Hour), Text: ptr("ECONNRESET и снова 429")},
	}
	f := &fakeRepo{batch: batch}
	s := newSvc(f, Config{DefaultChatID: "c1"}, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))

	p, err := s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.TopLinks) != 1 || p.TopLinks[0].Cnt != 2 {
		t.Fatalf("normalized links must merge trailing-slash variants: %+v", p.TopLinks)
	}
	if len(p.TopErrors) != 2 {
		t.Fatalf("error tokens = %+v", p.TopErrors)
	}
}

func TestExportInput_Mapping(t *testing.T) {
	p := domain.Preview{
		KPI: domain.KPI{WindowUTC: [2]string{"2025-03-10T00:00:00Z", "2025-03-11T00:00:00Z"}},
		Messages: []domain.ExportedMessage{
			{ID: "1", UserID: "7", SentAt: "2025-03-10T09:00:00Z", Text: ptr("привет"), Author: "@alice"},
			{ID: "2", UserID: "8", SentAt: "2025-03-10T09:05:00Z", ReplyTo: ptr("1"), Author: "Боб"},
		},
		Meta: domain.Meta{Date: "2025-03-10"},
	}
	in := ExportInput(p)

	if in.Date != "2025-03-10" || in.WindowUTC != p.KPI.WindowUTC {
		t.Fatalf("input meta = %+v", in)
	}
	if len(in.Messages) != 2 {
		t.Fatalf("messages = %+v", in.Messages)
	}
	if in.Messages[0].Text != "привет" || in.Messages[0].Author != "@alice" {
		t.Fatalf("first message = %+v", in.Messages[0])
	}
	if in.Messages[1].Text != "" || in.Messages[1].ReplyTo == nil || *in.Messages[1].ReplyTo != "1" {
		t.Fatalf("second message = %+v", in.Messages[1])
	}
}

func TestPreview_MetaGeneration(t *testing.T) {
	now := time.Date(2025, 3, 11, 8, 30, 0, 0, time.UTC)
	f := &fakeRepo{batch: batchOf(1, "привет")}
	s := newSvc(f, Config{DefaultChatID: "c1"}, now)

	p, err := s.Preview(context.Background(), domain.PreviewInput{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Meta.Date != "2025-03-10" {
		t.Fatalf("meta date = %q", p.Meta.Date)
	}
	if p.Meta.GeneratedAt != "2025-03-11T08:30:00Z" {
		t.Fatalf("generated at = %q", p.Meta.GeneratedAt)
	}
	if p.Meta.GenerationID == "" {
		t.Fatalf("generation id must be set")
	}
}
