// Package testutils provides deterministic mock implementations of the
// gateway and agent ports for testing.
package testutils

import (
	"context"
	"strings"
	"sync"

	"github.com/formul8/orchestra/internal/ports"
)

var _ ports.CompletionGateway = (*MockGateway)(nil)

// MockResponse defines a pre-configured response pattern for the mock
// gateway.
type MockResponse struct {
	// Pattern is matched as a substring against the combined system and
	// user prompt.
	Pattern string
	// Response is the text returned for matching prompts.
	Response string
	// Err, when non-nil, is returned instead of the response.
	Err error
}

// MockGateway implements the CompletionGateway interface with
// deterministic responses for testing. Requests are matched against
// configured patterns in registration order; unmatched requests get the
// default response. All calls are recorded for assertion.
type MockGateway struct {
	mu        sync.Mutex
	model     string
	responses []MockResponse
	// defaultResponse is returned when no pattern matches.
	defaultResponse string
	// defaultErr, when non-nil, is returned for unmatched requests.
	defaultErr error
	calls      []ports.CompletionRequest
}

// NewMockGateway creates a MockGateway with a generic default response.
func NewMockGateway(model string) *MockGateway {
	return &MockGateway{
		model:           model,
		defaultResponse: "This is a mock completion response.",
	}
}

// AddResponse registers a pattern-matched response. Patterns are
// checked in registration order and the first match wins.
func (m *MockGateway) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// SetDefault replaces the response returned for unmatched prompts.
func (m *MockGateway) SetDefault(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResponse = response
}

// FailWith makes every unmatched request return err.
func (m *MockGateway) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultErr = err
}

// Complete returns the first configured response whose pattern appears
// in the request's prompts.
func (m *MockGateway) Complete(ctx context.Context, req ports.CompletionRequest) (ports.Completion, error) {
	if err := ctx.Err(); err != nil {
		return ports.Completion{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)

	prompt := req.SystemPrompt + "\n" + req.UserPrompt
	for _, resp := range m.responses {
		if strings.Contains(prompt, resp.Pattern) {
			if resp.Err != nil {
				return ports.Completion{}, resp.Err
			}
			return m.completion(resp.Response), nil
		}
	}

	if m.defaultErr != nil {
		return ports.Completion{}, m.defaultErr
	}
	return m.completion(m.defaultResponse), nil
}

// Model returns the mock model identifier.
func (m *MockGateway) Model() string { return m.model }

// Calls returns a copy of all recorded requests.
func (m *MockGateway) Calls() []ports.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ports.CompletionRequest, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns the number of requests received.
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *MockGateway) completion(text string) ports.Completion {
	return ports.Completion{
		Text: text,
		Usage: ports.TokenUsage{
			InputTokens:  10,
			OutputTokens: len(text) / 4,
		},
	}
}
