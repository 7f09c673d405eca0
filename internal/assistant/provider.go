// Package assistant wraps the LLM providers behind the manager's "ask the
// business" panel. Providers only generate text; grounding data and the
// fallback answers live in the service layer.
package assistant

import (
	"context"
	"strings"

	"christocar/internal/config"
)

type Provider interface {
	GetProviderName() string
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// New picks the provider named by AI_PROVIDER. It returns nil when the
// matching API key is empty; callers treat nil as "not configured".
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		g, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}
