// Package llm provides a uniform generate(prompt) -> text contract over
// heterogeneous chat-completion APIs. Each adapter owns its per-call
// timeout and error normalization; provider failure is returned as an
// error value and never escapes the adapter boundary as a panic.
package llm

import (
	"context"
	"errors"
	"time"
)

// ErrNoProvider is returned when a call site requires a provider but none
// was configured.
var ErrNoProvider = errors.New("llm: no provider configured")

// Role selects the sampling policy for a call site. Buyer-query answering
// uses a small positive temperature to emulate real user variance;
// structured calls (profiling, query synthesis, detection) run near
// deterministic.
type Role string

// Call-site roles.
const (
	// RoleAnswer answers buyer queries as an assistant would.
	RoleAnswer Role = "answer"
	// RoleStructured produces strict JSON for extraction and detection.
	RoleStructured Role = "structured"
)

// Provider is the uniform contract over chat-completion providers.
type Provider interface {
	// Name returns the stable provider identifier (openai, anthropic, gemini).
	Name() string
	// Generate produces a completion for the prompt under the role's
	// sampling policy. A timeout or transport error is returned as
	// ("", err), never thrown past the adapter.
	Generate(ctx context.Context, prompt string, role Role) (string, error)
}

// CallPolicy binds model and sampling parameters for one role.
type CallPolicy struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Timeout defaults. Detection and other structured calls get a hard 15s
// budget; answering calls are allowed longer since they produce the
// response bodies the whole scan is about.
const (
	DefaultStructuredTimeout = 15 * time.Second
	DefaultAnswerTimeout     = 45 * time.Second
)

const (
	answerTemperature     = 0.7
	structuredTemperature = 0.1
	defaultMaxTokens      = 1024
)

// policy returns the call policy for a role given the adapter's models.
func policy(role Role, answerModel, structuredModel string) CallPolicy {
	if role == RoleAnswer {
		return CallPolicy{
			Model:       answerModel,
			Temperature: answerTemperature,
			MaxTokens:   defaultMaxTokens,
			Timeout:     DefaultAnswerTimeout,
		}
	}
	return CallPolicy{
		Model:       structuredModel,
		Temperature: structuredTemperature,
		MaxTokens:   defaultMaxTokens,
		Timeout:     DefaultStructuredTimeout,
	}
}

// GenerateJSON calls the provider under the structured role and strips any
// markdown code fences the model wrapped around the JSON payload.
func GenerateJSON(ctx context.Context, p Provider, prompt string) (string, error) {
	text, err := p.Generate(ctx, prompt, RoleStructured)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}
