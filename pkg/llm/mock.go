package llm

import "context"

// MockClient is a configurable mock for testing orchestration logic.
// Set the CompleteFunc field to control behavior in tests.
type MockClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns an empty result and nil error.
	CompleteFunc func(ctx context.Context, prompt string, systemMessage string, temperature float32, jsonMode bool) (*CompletionResult, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// CompleteCalls counts invocations for verification.
	CompleteCalls int

	// LastPrompt, LastSystemMessage and LastJSONMode record the most
	// recent call's inputs so tests can assert on prompt contents.
	LastPrompt        string
	LastSystemMessage string
	LastJSONMode      bool
}

// NewMockClient creates a new mock with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{Model: "mock-model"}
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, prompt string, systemMessage string, temperature float32, jsonMode bool) (*CompletionResult, error) {
	m.CompleteCalls++
	m.LastPrompt = prompt
	m.LastSystemMessage = systemMessage
	m.LastJSONMode = jsonMode
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, systemMessage, temperature, jsonMode)
	}
	return &CompletionResult{}, nil
}

// GetModel implements Client.
func (m *MockClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetProvider implements Client.
func (m *MockClient) GetProvider() string {
	return "mock"
}

// Reset clears call tracking.
func (m *MockClient) Reset() {
	m.CompleteCalls = 0
	m.LastPrompt = ""
	m.LastSystemMessage = ""
	m.LastJSONMode = false
}

// Ensure MockClient implements Client at compile time.
var _ Client = (*MockClient)(nil)
