// Package digest defines the structured daily digest document and its renderer
package digest

import (
	"fmt"
	"strings"
)

// Discussion is one key topic extracted from the day's messages
type Discussion struct {
	Topic        string   `json:"topic"        jsonschema:"required" validate:"required"`
	Question     string   `json:"question"     jsonschema:"required" validate:"required"`
	Participants []string `json:"participants" jsonschema:"required" validate:"required"`
	Outcome      string   `json:"outcome"      jsonschema:"required" validate:"required"`
}

// Stats carries the computable counters of the digest window
type Stats struct {
	MessagesCount     int `json:"messages_count"     jsonschema:"required" validate:"gte=0"`
	ParticipantsCount int `json:"participants_count" jsonschema:"required" validate:"gte=0"`
}

// Digest is the structured summarizer output
type Digest struct {
	Discussions         []Discussion `json:"discussions"          jsonschema:"required" validate:"required,dive"`
	Resources           []string     `json:"resources"            jsonschema:"required"`
	UnansweredQuestions []string     `json:"unanswered_questions" jsonschema:"required"`
	Stats               Stats        `json:"stats"                jsonschema:"required"`
	Insights            []string     `json:"insights"             jsonschema:"required"`
}

// Render produces the fixed-section human-readable digest text:
// numbered discussions, optional insight bullets, then the stats block
func Render(d Digest) string {
	var discussions []string
	for i, t := range d.Discussions {
		discussions = append(discussions, strings.Join([]string{
			fmt.Sprintf("%d. %s", i+1, t.Topic),
			"Вопрос: " + t.Question,
			"Участники: " + strings.Join(t.Participants, ", "),
			"Итог: " + t.Outcome,
		}, "\n"))
	}

	lines := []string{
		"📊 Ежедневный дайджест",
		"",
		"💬 Ключевые обсуждения",
		strings.Join(discussions, "\n\n"),
		"",
	}
	if len(d.Insights) > 0 {
		var bullets []string
		for _, i := range d.Insights {
			bullets = append(bullets, "– "+i)
		}
		lines = append(lines, "💡 Инсайты", strings.Join(bullets, "\n"), "")
	}
	lines = append(lines,
		"📈 Статистика",
		fmt.Sprintf("Сообщений: %d", d.Stats.MessagesCount),
		fmt.Sprintf("Участников: %d", d.Stats.ParticipantsCount),
	)
	return strings.Join(lines, "\n")
}
