// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/article-engine/pkg/types"
)

const defaultChatModel = "gpt-4o-mini"

// OpenAIService implements Service with the official openai-go SDK
// (chat completions).
type OpenAIService struct {
	model       string
	temperature float64
	client      openai.Client
}

// NewOpenAIService builds a generation service from config. The API key is
// required; the model falls back to a small default.
func NewOpenAIService(cfg types.GenerationConfig) (*OpenAIService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation API key is missing")
	}
	model := cfg.Model
	if model == "" {
		model = defaultChatModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	return &OpenAIService{
		model:       model,
		temperature: temperature,
		client:      openai.NewClient(opts...),
	}, nil
}

// Generate drafts text for one prompt.
func (s *OpenAIService) Generate(ctx context.Context, prompt string, c Constraints) (string, error) {
	temperature := s.temperature
	if c.Temperature > 0 {
		temperature = c.Temperature
	}
	return s.complete(ctx, systemPrompt, prompt, temperature)
}

// Paraphrase rewrites a flagged unit while preserving its tagged facts.
func (s *OpenAIService) Paraphrase(ctx context.Context, req ParaphraseRequest) (string, error) {
	prompt, err := ParaphrasePrompt(req)
	if err != nil {
		return "", err
	}
	// Higher temperature nudges the rewrite away from the original phrasing.
	return s.complete(ctx, systemPrompt, prompt, 0.9)
}

func (s *OpenAIService) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: generation call: %v", types.ErrServiceUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: generation returned no choices", types.ErrServiceUnavailable)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
