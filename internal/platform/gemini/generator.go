// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/fathomdev/fathom-api/internal/config"
	"github.com/fathomdev/fathom-api/internal/generation"
)

const (
	defaultMaxRetries        = 3
	defaultRetryDelaySeconds = 2
)

// promptTemplate asks the model for strict JSON so the response can be
// unmarshalled directly into responseSchema.
const promptTemplate = `You are an expert flashcard author.
Write {{.Count}} flashcards that teach the topic below.
Each card has a "front" (a question or prompt) and a "back" (the answer).
Keep fronts unambiguous and backs short.

Topic: {{.Topic}}

Respond with JSON only, in this exact shape:
{"cards": [{"front": "...", "back": "..."}]}`

// promptData represents the data passed to the prompt template
type promptData struct {
	Topic string
	Count int
}

// responseSchema represents the expected structure of the Gemini response
type responseSchema struct {
	Cards []cardSchema `json:"cards"`
}

type cardSchema struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator implements the generation.Generator interface using
// Google's Gemini API to draft flashcards.
type Generator struct {
	logger         *slog.Logger
	client         *genai.Client
	model          string
	promptTemplate *template.Template
	maxRetries     int
	baseDelay      time.Duration
}

// Ensure Generator implements generation.Generator interface
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed generator from the LLM
// configuration.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	tmpl, err := template.New("flashcard").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		client:         client,
		model:          cfg.ModelName,
		promptTemplate: tmpl,
		maxRetries:     defaultMaxRetries,
		baseDelay:      defaultRetryDelaySeconds * time.Second,
	}, nil
}

// GenerateDrafts implements generation.Generator.GenerateDrafts.
func (g *Generator) GenerateDrafts(ctx context.Context, topic string, count int) ([]generation.CardDraft, error) {
	if topic == "" {
		return nil, generation.ErrEmptyTopic
	}
	if count <= 0 {
		count = 5
	}

	prompt, err := g.createPrompt(topic, count)
	if err != nil {
		return nil, err
	}

	response, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(response)
}

// createPrompt renders the prompt template for the topic.
func (g *Generator) createPrompt(topic string, count int) (string, error) {
	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{Topic: topic, Count: count}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff and
// jitter for transient errors. Permanent errors (blocked content,
// unparseable responses) are returned immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attemptNum),
			slog.Int("max_attempts", g.maxRetries+1))

		response, err := g.callOnce(ctx, prompt)
		if err == nil {
			return response, nil
		}

		g.logger.WarnContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attemptNum),
			slog.String("error", err.Error()))

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			return nil, err
		}
		if attempt >= g.maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, g.maxRetries)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(g.baseDelay) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

func (g *Generator) callOnce(ctx context.Context, prompt string) (*responseSchema, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini api call: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: response finished for safety reasons", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	return &parsed, nil
}

// parseResponse converts the API response into card drafts. A response
// that decoded but yields no usable drafts is a generation failure, not
// a protocol error, so it is not retried.
func (g *Generator) parseResponse(response *responseSchema) ([]generation.CardDraft, error) {
	if response == nil || len(response.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrGenerationFailed)
	}

	drafts := make([]generation.CardDraft, 0, len(response.Cards))
	for i, card := range response.Cards {
		if card.Front == "" {
			return nil, fmt.Errorf("%w: card %d missing front side", generation.ErrGenerationFailed, i)
		}
		if card.Back == "" {
			return nil, fmt.Errorf("%w: card %d missing back side", generation.ErrGenerationFailed, i)
		}
		drafts = append(drafts, generation.CardDraft{Front: card.Front, Back: card.Back})
	}

	return drafts, nil
}
