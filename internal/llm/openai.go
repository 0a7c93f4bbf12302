package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Default OpenAI models per role.
const (
	openaiAnswerModel     = openai.ChatModelGPT4o
	openaiStructuredModel = openai.ChatModelGPT4oMini
)

// OpenAIProvider implements Provider over the OpenAI chat completions API.
type OpenAIProvider struct {
	client          *openai.Client
	answerModel     openai.ChatModel
	structuredModel openai.ChatModel
}

// NewOpenAIProvider creates an OpenAI-backed provider adapter.
func NewOpenAIProvider(apiKey string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client:          &client,
		answerModel:     openaiAnswerModel,
		structuredModel: openaiStructuredModel,
	}, nil
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string { return "openai" }

// Generate produces a completion under the role's sampling policy.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, role Role) (string, error) {
	pol := policy(role, string(p.answerModel), string(p.structuredModel))

	ctx, cancel := context.WithTimeout(ctx, pol.Timeout)
	defer cancel()

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(pol.Model),
		Temperature: openai.Float(float64(pol.Temperature)),
		MaxTokens:   openai.Int(int64(pol.MaxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: generate failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
