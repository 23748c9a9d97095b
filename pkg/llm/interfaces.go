package llm

import (
	"context"
)

// CompletionResult is the reply of a single model call with usage stats.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client defines the interface for model completions.
// Both provider implementations satisfy it. Use this interface for
// dependency injection to enable mocking in tests.
type Client interface {
	// Complete sends a prompt with a system message and returns the model's
	// reply with usage stats. When jsonMode is true, providers that support
	// a structured response format request a single JSON object; the rest
	// rely on the prompt contract alone.
	Complete(ctx context.Context, prompt string, systemMessage string, temperature float32, jsonMode bool) (*CompletionResult, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetProvider returns the provider name, "openai" or "anthropic".
	GetProvider() string
}
