package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Default Anthropic models per role.
const (
	anthropicAnswerModel     = anthropic.ModelClaudeSonnet4_5
	anthropicStructuredModel = anthropic.ModelClaudeHaiku4_5
)

// AnthropicProvider implements Provider over the Anthropic messages API.
type AnthropicProvider struct {
	client          *anthropic.Client
	answerModel     anthropic.Model
	structuredModel anthropic.Model
}

// NewAnthropicProvider creates an Anthropic-backed provider adapter.
func NewAnthropicProvider(apiKey string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		client:          &client,
		answerModel:     anthropicAnswerModel,
		structuredModel: anthropicStructuredModel,
	}, nil
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Generate produces a completion under the role's sampling policy.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string, role Role) (string, error) {
	pol := policy(role, string(p.answerModel), string(p.structuredModel))

	ctx, cancel := context.WithTimeout(ctx, pol.Timeout)
	defer cancel()

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(pol.Model),
		MaxTokens:   int64(pol.MaxTokens),
		Temperature: anthropic.Float(float64(pol.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: generate failed: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic: no content in response")
	}

	return resp.Content[0].Text, nil
}
