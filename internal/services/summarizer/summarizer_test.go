package summarizer

import (
	"encoding/json"
	"strings"
	"testing"

	"pulseboard/internal/core/digest"
)

func sampleInput() Input {
	text := "готово, фикс в https://github.com/acme/demo"
	return Input{
		Date:      "2025-03-10",
		WindowUTC: [2]string{"2025-03-10T00:00:00Z", "2025-03-11T00:00:00Z"},
		Messages: []Message{
			{ID: "1", Author: "@alice", Text: "Почему падает деплой?", SentAt: "2025-03-10T09:00:00Z"},
			{ID: "2", Author: "@bob", Text: text, SentAt: "2025-03-10T09:05:00Z"},
		},
	}
}

func TestDecodeModelJSON_Plain(t *testing.T) {
	var d digest.Digest
	raw := `{"discussions":[],"resources":[],"unanswered_questions":[],"stats":{"messages_count":3,"participants_count":2},"insights":[]}`
	if err := decodeModelJSON(raw, &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stats.MessagesCount != 3 || d.Stats.ParticipantsCount != 2 {
		t.Fatalf("stats = %+v", d.Stats)
	}
}

func TestDecodeModelJSON_StripsMarkdownFence(t *testing.T) {
	var d digest.Digest
	raw := "```json\n{\"discussions\":[],\"resources\":[],\"unanswered_questions\":[],\"stats\":{\"messages_count\":1,\"participants_count\":1},\"insights\":[]}\n```"
	if err := decodeModelJSON(raw, &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stats.MessagesCount != 1 {
		t.Fatalf("stats = %+v", d.Stats)
	}
}

func TestDecodeModelJSON_GarbageFails(t *testing.T) {
	var d digest.Digest
	if err := decodeModelJSON("извини, не получилось", &d); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestBuildDigestInput_CarriesWindowAndPayload(t *testing.T) {
	in := sampleInput()
	out := buildDigestInput(in)

	for _, want := range []string{
		"2025-03-10",
		in.WindowUTC[0],
		in.WindowUTC[1],
		"```",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("digest input missing %q:\n%s", want, out)
		}
	}

	// payload between the fences must round-trip as the same input
	parts := strings.Split(out, "```")
	if len(parts) < 3 {
		t.Fatalf("no fenced payload in:\n%s", out)
	}
	var got Input
	if err := json.Unmarshal([]byte(strings.TrimSpace(parts[1])), &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[1].Author != "@bob" {
		t.Fatalf("payload = %+v", got)
	}
}

func TestBuildInsightsInput_NoJSONOutputRequested(t *testing.T) {
	out := buildInsightsInput(sampleInput())
	if !strings.Contains(out, "без JSON") {
		t.Fatalf("insights input must forbid JSON output:\n%s", out)
	}
}

func TestDigestSchema_RequiredFieldsInlined(t *testing.T) {
	schema := digestSchema()
	if _, ok := schema["properties"].(map[string]any); !ok {
		t.Fatalf("schema is not a plain object map: %v", schema)
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(raw)
	for _, want := range []string{
		`"discussions"`,
		`"stats"`,
		`"messages_count"`,
		`"insights"`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("schema missing %s:\n%s", want, s)
		}
	}
	if strings.Contains(s, `"$ref"`) {
		t.Fatalf("schema must inline nested types:\n%s", s)
	}
}
