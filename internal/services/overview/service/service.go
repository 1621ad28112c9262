// Package service assembles the multi-facet overview report
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pulseboard/internal/core/buckets"
	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/classify"
	"pulseboard/internal/core/rank"
	"pulseboard/internal/core/textkit"
	"pulseboard/internal/core/threads"
	"pulseboard/internal/core/window"
	"pulseboard/internal/modkit/repokit"
	"pulseboard/internal/services/overview/domain"
	"pulseboard/internal/services/overview/repo"
)

// Facet caps; every ranked output is bounded
const (
	capTopUsers      = 10
	capTopLinks      = 15
	capTopWords      = 30
	capHashtags      = 10
	capMentions      = 10
	capTopThreads    = 10
	capTopHelpers    = 10
	capUnanswered    = 30
	capArtifacts     = 20
	capChats         = 100
	threadPreviewMax = 118
	answerPreviewMax = 158
	artifactPreview  = 138
	unansweredMinAge = 12 * time.Hour
)

// Service defines the overview service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the overview service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	now func() time.Time
}

// New constructs an overview service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("overview.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("overview.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, now: time.Now}
}

// Overview resolves the window, fetches the record batch and facet counts
// concurrently, then runs the in-memory reduction passes
func (s *Svc) Overview(ctx context.Context, in domain.Input) (domain.Report, error) {
	now := s.now().UTC()

	days := in.Days
	if days == 0 {
		days = 1
	}
	var w window.Window
	var err error
	if in.Date != "" {
		w, err = window.FromDate(in.Date)
		days = 1
	} else {
		w, err = window.FromDays(days, now)
	}
	if err != nil {
		return domain.Report{}, err
	}
	scope := window.Scope(in.ChatID)

	// independent read-only fetches run concurrently
	var (
		wg      sync.WaitGroup
		kpiRow  repo.KPIRow
		batch   []chat.Message
		authors []repo.AuthorCount
		chats   []repo.ChatRow

		kpiErr, batchErr, authorsErr, chatsErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		kpiRow, kpiErr = s.Repo.KPI(ctx, w, scope)
	}()
	go func() {
		defer wg.Done()
		batch, batchErr = s.Repo.Batch(ctx, w, scope)
	}()
	go func() {
		defer wg.Done()
		authors, authorsErr = s.Repo.TopAuthors(ctx, w, scope, capTopUsers)
	}()
	if !scope.Enabled() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chats, chatsErr = s.Repo.ChatRanking(ctx, w, capChats)
		}()
	}
	wg.Wait()
	for _, err := range []error{kpiErr, batchErr, authorsErr, chatsErr} {
		if err != nil {
			return domain.Report{}, err
		}
	}

	// single chronological reduction pass over the immutable batch
	links := rank.NewCounter()
	words := rank.NewCounter()
	hashtags := rank.NewCounter()
	mentions := rank.NewCounter()
	sentAts := make([]time.Time, 0, len(batch))
	for _, m := range batch {
		links.AddAll(textkit.Links(m.Text))
		words.AddAll(textkit.Words(m.Text))
		hashtags.AddAll(textkit.Hashtags(m.Text))
		mentions.AddAll(textkit.Mentions(m.Text))
		sentAts = append(sentAts, m.SentAt)
	}

	analyzer := threads.New(batch)
	previews, err := s.Repo.RootPreviews(ctx, w, scope, analyzer.RootIDs())
	if err != nil {
		return domain.Report{}, err
	}

	hourly := buckets.Series(w, buckets.Hour, sentAts)
	daily := buckets.Series(w, buckets.Day, sentAts)

	kpi := domain.KPI{
		TotalMsgs:   kpiRow.TotalMsgs,
		UniqueUsers: kpiRow.UniqueUsers,
		Replies:     kpiRow.Replies,
		WithLinks:   kpiRow.WithLinks,
	}
	if kpi.UniqueUsers > 0 {
		kpi.AvgPerUser = float64(kpi.TotalMsgs) / float64(kpi.UniqueUsers)
	}

	topUsers := make([]domain.UserCount, 0, len(authors))
	for _, a := range authors {
		topUsers = append(topUsers, domain.UserCount{User: a.Author.DisplayName(), Cnt: a.Cnt})
	}

	report := domain.Report{
		KPI:        kpi,
		Hourly:     hourly,
		Daily:      daily,
		TopUsers:   topUsers,
		TopLinks:   linkCounts(links.Top(capTopLinks)),
		TopWords:   wordCounts(words.Top(capTopWords)),
		Hashtags:   tagCounts(hashtags.Top(capHashtags)),
		Mentions:   tagCounts(mentions.Top(capMentions)),
		TopThreads: analyzer.TopThreads(previews, capTopThreads, threadPreviewMax),
		TopHelpers: analyzer.TopHelpers(capTopHelpers),
		Unanswered: classify.UnansweredQuestions(
			batch, analyzer.HasReply, now, unansweredMinAge, capUnanswered, answerPreviewMax,
		),
		Artifacts:  classify.Artifacts(batch, capArtifacts, artifactPreview),
		Since:      w.Since.Format(time.RFC3339),
		Until:      w.Until.Format(time.RFC3339),
		WindowDays: days,
	}
	for _, c := range chats {
		report.Chats = append(report.Chats, domain.ChatCount{ChatID: c.ChatID, Title: c.Title, Cnt: c.Cnt})
	}
	report.SummaryBullets = summaryBullets(report)
	return report, nil
}

func linkCounts(items []rank.Item) []domain.LinkCount {
	out := make([]domain.LinkCount, 0, len(items))
	for _, it := range items {
		out = append(out, domain.LinkCount{URL: it.Key, Cnt: it.Count})
	}
	return out
}

func wordCounts(items []rank.Item) []domain.WordCount {
	out := make([]domain.WordCount, 0, len(items))
	for _, it := range items {
		out = append(out, domain.WordCount{Word: it.Key, Cnt: it.Count})
	}
	return out
}

func tagCounts(items []rank.Item) []domain.TagCount {
	out := make([]domain.TagCount, 0, len(items))
	for _, it := range items {
		out = append(out, domain.TagCount{Tag: it.Key, Cnt: it.Count})
	}
	return out
}

// summaryBullets renders the dashboard headline strings
func summaryBullets(r domain.Report) []string {
	out := []string{fmt.Sprintf("Всего %d сообщений", r.KPI.TotalMsgs)}
	if peak, ok := buckets.Peak(r.Hourly); ok && peak.Count > 0 {
		out = append(out, fmt.Sprintf("Пик активности в %s UTC — %d", peak.At.Format("15:04"), peak.Count))
	}
	if len(r.TopUsers) > 0 {
		out = append(out, fmt.Sprintf("Топ-юзер %s — %d сообщений", r.TopUsers[0].User, r.TopUsers[0].Cnt))
	}
	if r.KPI.WithLinks > 0 {
		out = append(out, fmt.Sprintf("%d сообщений со ссылками", r.KPI.WithLinks))
	}
	if r.KPI.Replies > 0 {
		out = append(out, fmt.Sprintf("%d ответов в тредах", r.KPI.Replies))
	}
	return out
}
