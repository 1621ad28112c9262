package digest_test

import (
	"strings"
	"testing"

	"pulseboard/internal/core/digest"
)

func sample() digest.Digest {
	return digest.Digest{
		Discussions: []digest.Discussion{
			{
				Topic:        "Деплой на проде",
				Question:     "Почему падает деплой?",
				Participants: []string{"@alice", "Боб (@bob)"},
				Outcome:      "Откатили релиз, фикс в https://github.com/acme/demo",
			},
			{
				Topic:        "Выбор кэша",
				Question:     "Redis или memcached?",
				Participants: []string{"@carol"},
				Outcome:      "Решили попробовать Redis",
			},
		},
		Stats: digest.Stats{MessagesCount: 120, ParticipantsCount: 14},
	}
}

func TestRender_Sections(t *testing.T) {
	out := digest.Render(sample())

	for _, want := range []string{
		"📊 Ежедневный дайджест",
		"💬 Ключевые обсуждения",
		"1. Деплой на проде",
		"Вопрос: Почему падает деплой?",
		"Участники: @alice, Боб (@bob)",
		"Итог: Откатили релиз",
		"2. Выбор кэша",
		"📈 Статистика",
		"Сообщений: 120",
		"Участников: 14",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "💡 Инсайты") {
		t.Fatalf("insights section rendered without insights:\n%s", out)
	}
}

func TestRender_InsightsBullets(t *testing.T) {
	d := sample()
	d.Insights = []string{"растёт активность по утрам", "много вопросов про CI"}
	out := digest.Render(d)

	if !strings.Contains(out, "💡 Инсайты") {
		t.Fatalf("missing insights section:\n%s", out)
	}
	if !strings.Contains(out, "– растёт активность по утрам") {
		t.Fatalf("missing bullet:\n%s", out)
	}
}
