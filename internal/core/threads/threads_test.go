package threads_test

import (
	"testing"
	"time"

	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/threads"
)

func msg(id, author string, at time.Time, text string, replyTo *string) chat.Message {
	m := chat.Message{ID: id, ChatID: "c1", AuthorID: author, SentAt: at, ReplyTo: replyTo}
	if text != "" {
		m.Text = &text
	}
	m.Author = chat.Author{ID: author}
	return m
}

func ref(s string) *string { return &s }

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
}

func TestHelperAttribution_SampleConversation(t *testing.T) {
	// A asks, B answers, A thanks B
	batch := []chat.Message{
		msg("1", "A", at(9, 0), "Почему не работает деплой?", nil),
		msg("2", "B", at(9, 5), "Попробуй очистить кэш", ref("1")),
		msg("3", "A", at(9, 10), "Спасибо, помогло!", ref("2")),
	}
	a := threads.New(batch)

	if got := a.ReplyCounts()["1"]; got != 1 {
		t.Fatalf("direct replies to root 1 = %d want 1", got)
	}

	helpers := a.TopHelpers(10)
	if len(helpers) != 1 {
		t.Fatalf("helpers = %+v want exactly one", helpers)
	}
	if helpers[0].AuthorID != "B" || helpers[0].Count != 1 {
		t.Fatalf("helper = %+v want B with 1 credit", helpers[0])
	}
}

func TestHelperAttribution_DeepChainCreditsEveryForeignAuthor(t *testing.T) {
	batch := []chat.Message{
		msg("1", "A", at(9, 0), "root", nil),
		msg("2", "B", at(9, 1), "first", ref("1")),
		msg("3", "C", at(9, 2), "second", ref("2")),
		msg("4", "A", at(9, 3), "self", ref("3")),
	}
	helpers := threads.New(batch).TopHelpers(10)

	counts := map[string]int{}
	for _, h := range helpers {
		counts[h.AuthorID] = h.Count
	}
	if counts["B"] != 1 || counts["C"] != 1 {
		t.Fatalf("helpers = %+v want B=1 C=1", helpers)
	}
	if _, ok := counts["A"]; ok {
		t.Fatalf("root author must not credit themselves: %+v", helpers)
	}
}

func TestHelperAttribution_OrphanChainDiscarded(t *testing.T) {
	batch := []chat.Message{
		msg("2", "B", at(9, 1), "reply to missing", ref("999")),
	}
	if helpers := threads.New(batch).TopHelpers(10); len(helpers) != 0 {
		t.Fatalf("helpers = %+v want none for unresolvable chain", helpers)
	}
}

func TestHelperAttribution_CycleTerminates(t *testing.T) {
	batch := []chat.Message{
		msg("1", "A", at(9, 0), "one", ref("2")),
		msg("2", "B", at(9, 1), "two", ref("1")),
		msg("3", "C", at(9, 2), "into the loop", ref("1")),
	}
	// must terminate and credit nothing since no chain reaches a root
	if helpers := threads.New(batch).TopHelpers(10); len(helpers) != 0 {
		t.Fatalf("helpers = %+v want none", helpers)
	}
}

func TestTopThreads_PreviewLookupAndPlaceholders(t *testing.T) {
	batch := []chat.Message{
		msg("10", "B", at(9, 0), "re outside", ref("out")),
		msg("11", "C", at(9, 1), "re inside", ref("5")),
		msg("12", "D", at(9, 2), "re inside too", ref("5")),
	}
	a := threads.New(batch)
	got := a.TopThreads(map[string]string{"5": "какой-то корень"}, 10, 118)

	if len(got) != 2 {
		t.Fatalf("threads = %+v want 2", got)
	}
	if got[0].RootID != "5" || got[0].Replies != 2 || got[0].Preview != "какой-то корень" {
		t.Fatalf("top thread = %+v", got[0])
	}
	if got[1].RootID != "out" || got[1].Preview != threads.OutsideWindowPreview {
		t.Fatalf("orphan thread = %+v", got[1])
	}
}

func TestTopThreads_TiesByFirstSeen(t *testing.T) {
	batch := []chat.Message{
		msg("20", "B", at(9, 0), "x", ref("b")),
		msg("21", "C", at(9, 1), "y", ref("a")),
	}
	got := threads.New(batch).TopThreads(map[string]string{}, 10, 118)
	if got[0].RootID != "b" || got[1].RootID != "a" {
		t.Fatalf("tie order = %+v want b before a", got)
	}
}

func TestTopThreadsInWindow_RootsRestrictedToWindow(t *testing.T) {
	batch := []chat.Message{
		msg("1", "A", at(9, 0), "корневое сообщение", nil),
		msg("2", "B", at(9, 5), "ответ", ref("1")),
		msg("3", "C", at(9, 6), "ответ наружу", ref("outside")),
	}
	got := threads.New(batch).TopThreadsInWindow(5, 158)
	if len(got) != 1 {
		t.Fatalf("threads = %+v want only the in-window root", got)
	}
	if got[0].RootID != "1" || got[0].Replies != 1 || got[0].Preview != "корневое сообщение" {
		t.Fatalf("thread = %+v", got[0])
	}
}

func TestTopThreadsInWindow_EmptyRootTextGetsPlaceholder(t *testing.T) {
	batch := []chat.Message{
		msg("1", "A", at(9, 0), "", nil),
		msg("2", "B", at(9, 5), "ответ", ref("1")),
	}
	got := threads.New(batch).TopThreadsInWindow(5, 158)
	if len(got) != 1 || got[0].Preview != threads.NoTextPreview {
		t.Fatalf("threads = %+v want placeholder preview", got)
	}
}

func TestHasReply(t *testing.T) {
	batch := []chat.Message{
		msg("1", "A", at(9, 0), "root", nil),
		msg("2", "B", at(9, 5), "reply", ref("1")),
	}
	a := threads.New(batch)
	if !a.HasReply("1") {
		t.Fatalf("expected a reply to 1")
	}
	if a.HasReply("2") {
		t.Fatalf("no replies to 2 expected")
	}
}
