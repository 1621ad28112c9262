package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/window"
	"pulseboard/internal/modkit/repokit"
	"pulseboard/internal/platform/testkit"
	"pulseboard/internal/services/overview/domain"
	"pulseboard/internal/services/overview/repo"
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
	kpi      repo.KPIRow
	batch    []chat.Message
	authors  []repo.AuthorCount
	chats    []repo.ChatRow
	previews map[string]string

	chatsQueried bool
}

func (f *fakeRepo) KPI(context.Context, window.Window, window.Scope) (repo.KPIRow, error) {
	return f.kpi, nil
}

func (f *fakeRepo) Batch(context.Context, window.Window, window.Scope) ([]chat.Message, error) {
	return f.batch, nil
}

func (f *fakeRepo) TopAuthors(context.Context, window.Window, window.Scope, int) ([]repo.AuthorCount, error) {
	return f.authors, nil
}

func (f *fakeRepo) RootPreviews(context.Context, window.Window, window.Scope, []string) (map[string]string, error) {
	return f.previews, nil
}

func (f *fakeRepo) ChatRanking(context.Context, window.Window, int) ([]repo.ChatRow, error) {
	f.chatsQueried = true
	return f.chats, nil
}

func newSvc(f *fakeRepo, now time.Time) *Svc {
	s := New(fakeRunner{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f }))
	s.now = func() time.Time { return now }
	return s
}

func ptr(s string) *string { return &s }

func fixedBatch() []chat.Message {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return []chat.Message{
		{
			ID: "1", ChatID: "c1", AuthorID: "7",
			SentAt: day.Add(9 * time.Hour),
			Text:   ptr("Смотри https://github.com/acme/demo #devops"),
		},
		{
			ID: "2", ChatID: "c1", AuthorID: "8",
			SentAt: day.Add(9*time.Hour + 5*time.Minute),
			Text:   ptr("спасибо @alice"), ReplyTo: ptr("1"),
			Author: chat.Author{ID: "8"},
		},
		{
			ID: "3", ChatID: "c1", AuthorID: "7",
			SentAt: day.Add(15 * time.Hour),
			Text:   ptr("деплоим вечером"),
		},
	}
}

func fixture() *fakeRepo {
	return &fakeRepo{
		kpi:   repo.KPIRow{TotalMsgs: 5, UniqueUsers: 2, Replies: 1, WithLinks: 1},
		batch: fixedBatch(),
		authors: []repo.AuthorCount{
			{Author: chat.Author{ID: "7", Username: ptr("alice")}, Cnt: 3},
			{Author: chat.Author{ID: "8", FirstName: ptr("Боб")}, Cnt: 2},
		},
		chats:    []repo.ChatRow{{ChatID: "c1", Title: "DevOps", Cnt: 5}},
		previews: map[string]string{"1": "Смотри https://github.com/acme/demo #devops"},
	}
}

func TestOverview_DateWindowAndKPI(t *testing.T) {
	f := fixture()
	s := newSvc(f, time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))

	got, err := s.Overview(context.Background(), domain.Input{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Since != "2025-03-10T00:00:00Z" || got.Until != "2025-03-11T00:00:00Z" {
		t.Fatalf("window = %s .. %s", got.Since, got.Until)
	}
	if got.WindowDays != 1 {
		t.Fatalf("window days = %d want 1", got.WindowDays)
	}
	if got.KPI.TotalMsgs != 5 || got.KPI.AvgPerUser != 2.5 {
		t.Fatalf("kpi = %+v", got.KPI)
	}
	if len(got.Hourly) != 24 {
		t.Fatalf("hourly buckets = %d want 24", len(got.Hourly))
	}
	sum := 0
	for _, b := range got.Hourly {
		sum += b.Count
	}
	if sum != len(f.batch) {
		t.Fatalf("hourly sum = %d want %d", sum, len(f.batch))
	}
}

func TestOverview_FacetsFromBatch(t *testing.T) {
	f := fixture()
	s := newSvc(f, time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))

	got, err := s.Overview(context.Background(), domain.Input{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.TopUsers) != 2 || got.TopUsers[0].User != "@alice" || got.TopUsers[1].User != "Боб" {
		t.Fatalf("top users = %+v", got.TopUsers)
	}
	if len(got.TopLinks) != 1 || got.TopLinks[0].URL != "https://github.com/acme/demo" {
		t.Fatalf("top links = %+v", got.TopLinks)
	}
	if len(got.Hashtags) != 1 || got.Hashtags[0].Tag != "#devops" {
		t.Fatalf("hashtags = %+v", got.Hashtags)
	}
	if len(got.Mentions) != 1 || got.Mentions[0].Tag != "@alice" {
		t.Fatalf("mentions = %+v", got.Mentions)
	}
	if len(got.TopThreads) != 1 || got.TopThreads[0].RootID != "1" || got.TopThreads[0].Replies != 1 {
		t.Fatalf("top threads = %+v", got.TopThreads)
	}
	if len(got.TopHelpers) != 1 || got.TopHelpers[0].AuthorID != "8" {
		t.Fatalf("top helpers = %+v", got.TopHelpers)
	}
	if len(got.Artifacts) != 1 || got.Artifacts[0].ID != "1" {
		t.Fatalf("artifacts = %+v", got.Artifacts)
	}
}

func TestOverview_SummaryBullets(t *testing.T) {
	f := fixture()
	s := newSvc(f, time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))

	got, err := s.Overview(context.Background(), domain.Input{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"Всего 5 сообщений",
		"Пик активности в 09:00 UTC — 2",
		"Топ-юзер @alice — 3 сообщений",
		"1 сообщений со ссылками",
		"1 ответов в тредах",
	}
	if !reflect.DeepEqual(got.SummaryBullets, want) {
		t.Fatalf("bullets = %v want %v", got.SummaryBullets, want)
	}
}

func TestOverview_ChatRankingOnlyForUnscopedRequests(t *testing.T) {
	f := fixture()
	s := newSvc(f, time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))

	got, err := s.Overview(context.Background(), domain.Input{Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.chatsQueried || len(got.Chats) != 1 || got.Chats[0].Title != "DevOps" {
		t.Fatalf("unscoped request must rank chats: %+v", got.Chats)
	}

	f2 := fixture()
	s2 := newSvc(f2, time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))
	got2, err := s2.Overview(context.Background(), domain.Input{Date: "2025-03-10", ChatID: "c1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f2.chatsQueried || got2.Chats != nil {
		t.Fatalf("scoped request must skip chat ranking: %+v", got2.Chats)
	}
}

func TestOverview_Deterministic(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	build := func() domain.Report {
		s := newSvc(fixture(), now)
		r, err := s.Overview(context.Background(), domain.Input{Date: "2025-03-10"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return r
	}
	first := build()
	for i := 0; i < 10; i++ {
		if got := build(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged", i)
		}
	}
}

func TestOverview_RejectsBadWindow(t *testing.T) {
	s := newSvc(fixture(), time.Now())
	if _, err := s.Overview(context.Background(), domain.Input{Date: "not-a-date"}); err == nil {
		t.Fatalf("expected window error")
	}
	if _, err := s.Overview(context.Background(), domain.Input{Days: 31}); err == nil {
		t.Fatalf("expected days range error")
	}
}

func TestNew_PanicsOnNilDeps(t *testing.T) {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return &fakeRepo{} })
	testkit.MustPanic(t, func() { New(nil, binder) })
	testkit.MustPanic(t, func() { New(fakeRunner{}, nil) })
}
