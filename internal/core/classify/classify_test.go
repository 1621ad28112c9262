package classify_test

import (
	"strings"
	"testing"
	"time"

	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/classify"
	"pulseboard/internal/core/threads"
)

func msg(id, author string, at time.Time, text string, replyTo *string) chat.Message {
	m := chat.Message{ID: id, ChatID: "c1", AuthorID: author, SentAt: at, ReplyTo: replyTo}
	if text != "" {
		m.Text = &text
	}
	return m
}

func ref(s string) *string { return &s }

func TestIsQuestion(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Деплой упал?", true},
		{"Как настроить CI", true},
		{"ПОЧЕМУ молчит бот", true},
		{"ошибка в логах", true},
		{"не работает прод", true},
		{"how do I restart", true},
		{"всё отлично, спасибо", false},
		{"deployed to prod", false},
	}
	for _, tc := range cases {
		if got := classify.IsQuestion(tc.text); got != tc.want {
			t.Fatalf("IsQuestion(%q) = %v want %v", tc.text, got, tc.want)
		}
	}
}

func TestUnanswered_SelectionAndOrder(t *testing.T) {
	now := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	batch := []chat.Message{
		// old question, never answered: qualifies, 15h
		msg("1", "A", now.Add(-15*time.Hour), "Почему падает деплой?", nil),
		// answered question: excluded
		msg("2", "B", now.Add(-14*time.Hour), "Как включить логи?", nil),
		msg("3", "C", now.Add(-13*time.Hour), "через env", ref("2")),
		// a reply that itself looks like a question: excluded, not a root
		msg("4", "D", now.Add(-13*time.Hour), "а почему так?", ref("2")),
		// too fresh: excluded
		msg("5", "E", now.Add(-2*time.Hour), "Кто знает, как откатить?", nil),
		// older qualifying question sorts first
		msg("6", "F", now.Add(-20*time.Hour), "Зачем нам два кластера?", nil),
	}
	a := threads.New(batch)

	got := classify.UnansweredQuestions(batch, a.HasReply, now, 12*time.Hour, 30, 158)
	if len(got) != 2 {
		t.Fatalf("unanswered = %+v want 2", got)
	}
	if got[0].ID != "6" || got[0].Hours != 20 {
		t.Fatalf("first = %+v want id 6 at 20h", got[0])
	}
	if got[1].ID != "1" || got[1].Hours != 15 {
		t.Fatalf("second = %+v want id 1 at 15h", got[1])
	}
	for _, u := range got {
		if u.ID == "4" {
			t.Fatalf("reply message leaked into unanswered output")
		}
	}
}

func TestUnanswered_Cap(t *testing.T) {
	now := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	var batch []chat.Message
	for i := 0; i < 40; i++ {
		id := string(rune('a' + i%26))
		batch = append(batch, msg(id+"x", "A", now.Add(-13*time.Hour), "почему "+id+"?", nil))
	}
	a := threads.New(batch)
	got := classify.UnansweredQuestions(batch, a.HasReply, now, 12*time.Hour, 30, 158)
	if len(got) != 30 {
		t.Fatalf("unanswered length = %d want 30", len(got))
	}
}

func TestArtifacts_HostsAndCode(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	batch := []chat.Message{
		msg("1", "A", at, "готово: https://github.com/acme/demo", nil),
		msg("2", "B", at, "превью на https://demo.vercel.app/landing", nil),
		msg("3", "C", at, "фикс:\n```go\nreturn nil\n```", nil),
		msg("4", "D", at, "см. https://example.com/blog", nil),
		msg("5", "E", at, "код на https://evil-github.com/x", nil),
		msg("6", "F", at, "просто текст", nil),
	}
	got := classify.Artifacts(batch, 20, 138)
	if len(got) != 3 {
		t.Fatalf("artifacts = %+v want 3", got)
	}
	if got[0].ID != "1" || got[0].URL != "https://github.com/acme/demo" || got[0].HasCode {
		t.Fatalf("artifact 0 = %+v", got[0])
	}
	if got[1].ID != "2" || got[1].URL != "https://demo.vercel.app/landing" {
		t.Fatalf("artifact 1 = %+v", got[1])
	}
	if got[2].ID != "3" || !got[2].HasCode || got[2].URL != "" {
		t.Fatalf("artifact 2 = %+v", got[2])
	}
}

func TestArtifacts_CapAndPreview(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	long := "https://github.com/acme/" + strings.Repeat("x", 200)
	var batch []chat.Message
	for i := 0; i < 25; i++ {
		batch = append(batch, msg(string(rune('a'+i)), "A", at, long, nil))
	}
	got := classify.Artifacts(batch, 20, 138)
	if len(got) != 20 {
		t.Fatalf("artifacts length = %d want 20", len(got))
	}
	if runes := []rune(got[0].Preview); len(runes) != 138 || runes[len(runes)-1] != '…' {
		t.Fatalf("preview not truncated: %q", got[0].Preview)
	}
}
