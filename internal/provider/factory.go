package provider

import (
	"context"
	"fmt"

	"github.com/skanderbz/tutord/internal/config"
)

// NewPrimary builds the primary conversational provider selected by
// configuration. Local OpenAI-compatible backends get sensible default
// base URLs so a bare provider name is enough.
func NewPrimary(ctx context.Context, cfg config.ProvidersConfig) (Provider, error) {
	switch cfg.Primary {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)

	case "anthropic":
		return NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)

	case "openai":
		return NewOpenAIProvider("openai", cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)

	case "ollama":
		baseURL := cfg.OpenAIBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		apiKey := cfg.OpenAIAPIKey
		if apiKey == "" {
			// Local servers ignore the key but the client requires one.
			apiKey = "ollama"
		}
		return NewOpenAIProvider("ollama", apiKey, cfg.OpenAIModel, baseURL)

	case "lmstudio":
		baseURL := cfg.OpenAIBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:1234/v1"
		}
		apiKey := cfg.OpenAIAPIKey
		if apiKey == "" {
			apiKey = "lm-studio"
		}
		return NewOpenAIProvider("lmstudio", apiKey, cfg.OpenAIModel, baseURL)

	default:
		return nil, fmt.Errorf("unknown primary provider: %s (supported: gemini, anthropic, openai, ollama, lmstudio)", cfg.Primary)
	}
}

// NewSecondary builds the no-retrieval LLM fallback (cascade tier 3). It is
// always OpenAI-shaped; with no key configured the caller should omit the
// tier entirely rather than install a provider that can never succeed.
func NewSecondary(cfg config.ProvidersConfig) (Provider, error) {
	return NewOpenAIProvider("openai-fallback", cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
}
