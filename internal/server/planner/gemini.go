package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/genai"

	"github.com/avelichka/skinform/internal/logging"
	"github.com/avelichka/skinform/internal/plan"
)

const (
	geminiTemperature     = 0.7
	geminiTopP            = 0.9
	geminiMaxOutputTokens = 8192
	geminiMaxRetries      = 2
	geminiInitialBackoff  = time.Second
)

// GeminiPlanner generates protocols with the Gemini API in JSON mode.
type GeminiPlanner struct {
	client *genai.Client
	model  string
	logger logging.Logger
}

func NewGeminiPlanner(ctx context.Context, apiKey, model string, logger logging.Logger) (*GeminiPlanner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiPlanner{client: client, model: model, logger: logger}, nil
}

func (p *GeminiPlanner) Generate(ctx context.Context, form json.RawMessage, days int, start time.Time) (*plan.DailyProtocol, error) {
	userPrompt, err := buildUserPrompt(form, days, start)
	if err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](geminiTemperature),
		TopP:              genai.Ptr[float32](geminiTopP),
		MaxOutputTokens:   geminiMaxOutputTokens,
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	// Transient API failures and occasional malformed JSON replies are both
	// worth one more attempt with a fresh generation.
	backoff := retry.WithMaxRetries(geminiMaxRetries, retry.NewFibonacci(geminiInitialBackoff))

	var protocol *plan.DailyProtocol
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(userPrompt), cfg)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("Gemini generate failed: %w", err))
		}

		decoded, dropped, err := decodeProtocol([]byte(resp.Text()))
		if err != nil {
			return retry.RetryableError(err)
		}
		for _, a := range dropped {
			p.logger.Warn(ctx, "dropped disallowed action from generated plan",
				"type", a.Type, "title", a.Title)
		}

		protocol = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return protocol, nil
}
