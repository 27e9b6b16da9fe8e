package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// GeminiGenerator calls the Gemini API to generate flashcards. Transient API
// failures are retried with exponential backoff and jitter; safety blocks and
// malformed responses fail immediately.
type GeminiGenerator struct {
	client     *genai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: api key cannot be empty", ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %v", ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		client:     client,
		model:      model,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}, nil
}

func (g *GeminiGenerator) GenerateCards(ctx context.Context, params models.GenerationParams) ([]models.GeneratedCard, error) {
	prompt, err := BuildPrompt(params)
	if err != nil {
		return nil, err
	}

	cards, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ValidateCards(cards, params.Count)
}

func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) ([]models.GeneratedCard, error) {
	log := logger.FromContext(ctx)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		log.Debug("gemini call: model=%s attempt=%d/%d", g.model, attempt+1, g.maxRetries+1)

		cards, err := g.callOnce(ctx, prompt)
		if err == nil {
			return cards, nil
		}

		// Safety blocks and bad payloads will not get better on retry.
		if errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrInvalidResponse) {
			return nil, err
		}
		if attempt >= g.maxRetries {
			return nil, fmt.Errorf("%w: exhausted %d attempts: %v", ErrTransientFailure, attempt+1, err)
		}

		backoff := float64(g.retryDelay) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter)
		log.Warn("gemini call failed, retrying in %s: %v", delay.Round(time.Millisecond), err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}

func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) ([]models.GeneratedCard, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini api: %w", err)
	}

	text, err := ResponseText(resp)
	if err != nil {
		return nil, err
	}
	return ParseCards(text)
}

// ResponseText flattens the first candidate's text parts into one string,
// rejecting safety-blocked and empty responses.
func ResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: safety filters", ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

// ParseCards decodes the model's JSON array, tolerating the markdown fences
// some models wrap around the payload despite instructions.
func ParseCards(raw string) ([]models.GeneratedCard, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var cards []models.GeneratedCard
	if err := json.Unmarshal([]byte(trimmed), &cards); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return cards, nil
}

// ValidateCards drops unusable entries and trims to the requested count.
// It fails only when nothing usable came back at all.
func ValidateCards(cards []models.GeneratedCard, count int) ([]models.GeneratedCard, error) {
	valid := make([]models.GeneratedCard, 0, len(cards))
	for _, card := range cards {
		if card.Question == "" || card.Answer == "" {
			continue
		}
		if card.Options != nil && !containsOption(card.Options, card.Answer) {
			card.Options = append(card.Options, card.Answer)
		}
		valid = append(valid, card)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no usable cards", ErrInvalidResponse)
	}
	if count > 0 && len(valid) > count {
		valid = valid[:count]
	}
	return valid, nil
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), strings.TrimSpace(answer)) {
			return true
		}
	}
	return false
}
