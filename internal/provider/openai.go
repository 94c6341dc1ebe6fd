package provider

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/skanderbz/tutord/internal/session"
)

// OpenAIProvider answers through an OpenAI-compatible chat completion API.
// With a custom base URL it also fronts self-hosted backends (ollama,
// LM Studio), which all speak the same wire protocol.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAIProvider creates a provider against api.openai.com or, when
// baseURL is non-empty, a compatible endpoint. name distinguishes the
// backend in logs and cascade traces.
func NewOpenAIProvider(name, apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s api key not set", name)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   name,
	}, nil
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return p.name }

// Generate implements Provider. History is passed as structured chat
// messages rather than inlined into the prompt, since this API is
// message-oriented.
func (p *OpenAIProvider) Generate(ctx context.Context, query string, history []session.Exchange) Result {
	msgs := make([]openai.ChatCompletionMessage, 0, 2*len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: tutorSystemPrompt,
	})

	tail := history
	if len(tail) > primaryHistoryWindow {
		tail = tail[len(tail)-primaryHistoryWindow:]
	}
	for _, ex := range tail {
		msgs = append(msgs,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: ex.UserText},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: ex.AIText},
		)
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: query,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: msgs,
	})
	if err != nil {
		return Unavailable(fmt.Errorf("%s completion failed: %w", p.name, err))
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Unavailable(fmt.Errorf("%s returned empty completion", p.name))
	}
	return Success(resp.Choices[0].Message.Content)
}
