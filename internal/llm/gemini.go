package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Default Gemini models per role.
const (
	geminiAnswerModel     = "gemini-2.5-flash"
	geminiStructuredModel = "gemini-2.5-flash-lite"
)

// GeminiProvider implements Provider over the Google Gemini API.
type GeminiProvider struct {
	client          *genai.Client
	answerModel     string
	structuredModel string
}

// NewGeminiProvider creates a Gemini-backed provider adapter.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	return &GeminiProvider{
		client:          client,
		answerModel:     geminiAnswerModel,
		structuredModel: geminiStructuredModel,
	}, nil
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string { return "gemini" }

// Generate produces a completion under the role's sampling policy.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string, role Role) (string, error) {
	pol := policy(role, p.answerModel, p.structuredModel)

	ctx, cancel := context.WithTimeout(ctx, pol.Timeout)
	defer cancel()

	model := p.client.GenerativeModel(pol.Model)
	model.SetTemperature(pol.Temperature)
	model.SetMaxOutputTokens(int32(pol.MaxTokens))
	if role == RoleStructured {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate failed: %w", err)
	}

	return extractGeminiText(resp)
}

// Close releases the underlying API client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// extractGeminiText pulls the text parts out of a Gemini response.
func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini: no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
