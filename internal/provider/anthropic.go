package provider

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/skanderbz/tutord/internal/session"
)

const anthropicMaxTokens = 2048

// AnthropicProvider answers through the Anthropic Messages API. Selectable
// as the primary conversational backend via config.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates an Anthropic-backed provider.
func NewAnthropicProvider(apiKey, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key not set")
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}, nil
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Generate implements Provider.
func (p *AnthropicProvider) Generate(ctx context.Context, query string, history []session.Exchange) Result {
	msgs := make([]anthropic.Message, 0, 2*len(history)+1)

	tail := history
	if len(tail) > primaryHistoryWindow {
		tail = tail[len(tail)-primaryHistoryWindow:]
	}
	for _, ex := range tail {
		msgs = append(msgs,
			anthropic.NewUserTextMessage(ex.UserText),
			anthropic.NewAssistantTextMessage(ex.AIText),
		)
	}
	msgs = append(msgs, anthropic.NewUserTextMessage(query))

	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(p.model),
		Messages:  msgs,
		MaxTokens: anthropicMaxTokens,
		MultiSystem: []anthropic.MessageSystemPart{
			{Type: "text", Text: tutorSystemPrompt},
		},
	})
	if err != nil {
		return Unavailable(fmt.Errorf("anthropic completion failed: %w", err))
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text += *block.Text
		}
	}
	if text == "" {
		return Unavailable(fmt.Errorf("anthropic returned no text content"))
	}
	return Success(text)
}
