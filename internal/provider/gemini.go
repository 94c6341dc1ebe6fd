package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/skanderbz/tutord/internal/session"
)

// GeminiProvider answers through Google's Gemini API. It is the default
// primary conversational provider.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Generate implements Provider. Any SDK error, safety-filtered empty
// candidate set, or blank completion becomes Unavailable.
func (p *GeminiProvider) Generate(ctx context.Context, query string, history []session.Exchange) Result {
	prompt := buildTutorPrompt(query, history)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return Unavailable(fmt.Errorf("gemini generation failed: %w", err))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return Unavailable(fmt.Errorf("gemini returned no candidates"))
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return Unavailable(fmt.Errorf("gemini returned empty text"))
	}
	return Success(text)
}
