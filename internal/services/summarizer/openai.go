package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog"

	"pulseboard/internal/core/digest"
	"pulseboard/internal/platform/config"
	perr "pulseboard/internal/platform/errors"
)

// Config carries the summarizer tunables
type Config struct {
	APIKey          string
	Model           string
	MaxOutputTokens int64
	DigestTimeout   time.Duration
	InsightsTimeout time.Duration
}

// ConfigFromEnv reads the SUMMARIZER_-scoped settings
func ConfigFromEnv(cfg config.Conf) Config {
	c := cfg.Prefix("SUMMARIZER_")
	return Config{
		APIKey:          c.MayString("API_KEY", ""),
		Model:           c.MayString("MODEL", "gpt-5-mini"),
		MaxOutputTokens: int64(c.MayInt("MAX_OUTPUT_TOKENS", 4096)),
		DigestTimeout:   c.MayDuration("DIGEST_TIMEOUT", 120*time.Second),
		InsightsTimeout: c.MayDuration("INSIGHTS_TIMEOUT", 90*time.Second),
	}
}

// Client is the OpenAI-backed Digester
type Client struct {
	api openai.Client
	cfg Config
	log zerolog.Logger
}

// NewClient builds a Client from config; the API key must already be validated
func NewClient(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		api: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg: cfg,
		log: log.With().Str("component", "summarizer").Logger(),
	}
}

var _ Digester = (*Client)(nil)

// digestSchema reflects the strict response schema for structured output.
// DoNotReference inlines nested types; strict mode rejects $ref.
// The SDK takes the schema as a plain map, so the reflected form round-trips
// through JSON
func digestSchema() map[string]any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	raw, err := json.Marshal(r.Reflect(&digest.Digest{}))
	if err != nil {
		panic("summarizer: digest schema reflection failed: " + err.Error())
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		panic("summarizer: digest schema decode failed: " + err.Error())
	}
	return schema
}

// Digest runs one structured-output generation over the exported messages.
// The call is never retried here
func (c *Client) Digest(ctx context.Context, in Input) (digest.Digest, error) {
	if c.cfg.APIKey == "" {
		return digest.Digest{}, perr.Unavailablef("summarizer api key not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.DigestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.Responses.New(ctx, responses.ResponseNewParams{
		Model:           shared.ResponsesModel(c.cfg.Model),
		MaxOutputTokens: openai.Int(c.cfg.MaxOutputTokens),
		Instructions:    openai.String(digestPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(buildDigestInput(in), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "daily_digest",
					Schema:      digestSchema(),
					Strict:      openai.Bool(true),
					Description: openai.String("Structured daily chat digest"),
					Type:        "json_schema",
				},
			},
		},
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return digest.Digest{}, perr.SummarizerTimeoutf("digest generation timed out after %s", c.cfg.DigestTimeout)
		}
		return digest.Digest{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "digest generation failed")
	}

	raw := strings.TrimSpace(resp.OutputText())
	c.log.Debug().
		Str("model", c.cfg.Model).
		Int("messages", len(in.Messages)).
		Int("output_len", len(raw)).
		Dur("took", time.Since(start)).
		Msg("digest generated")
	if raw == "" {
		return digest.Digest{}, perr.SummarizerEmptyf("digest generation returned no output")
	}

	var d digest.Digest
	if err := decodeModelJSON(raw, &d); err != nil {
		return digest.Digest{}, perr.SummarizerSchemaf("digest output is not valid JSON: %v", err)
	}
	return d, nil
}

// Insights runs one free-form generation over the exported messages
func (c *Client) Insights(ctx context.Context, in Input) (string, error) {
	if c.cfg.APIKey == "" {
		return "", perr.Unavailablef("summarizer api key not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.InsightsTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.Responses.New(ctx, responses.ResponseNewParams{
		Model:           shared.ResponsesModel(c.cfg.Model),
		MaxOutputTokens: openai.Int(c.cfg.MaxOutputTokens),
		Instructions:    openai.String(insightsPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(buildInsightsInput(in), responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", perr.SummarizerTimeoutf("insights generation timed out after %s", c.cfg.InsightsTimeout)
		}
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "insights generation failed")
	}

	out := strings.TrimSpace(resp.OutputText())
	c.log.Debug().
		Str("model", c.cfg.Model).
		Int("messages", len(in.Messages)).
		Int("output_len", len(out)).
		Dur("took", time.Since(start)).
		Msg("insights generated")
	if out == "" {
		return "", perr.SummarizerEmptyf("insights generation returned no output")
	}
	return out, nil
}

// decodeModelJSON unmarshals model output, tolerating a stray markdown fence
func decodeModelJSON(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return json.Unmarshal([]byte(strings.TrimSpace(trimmed)), v)
}
