// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import "context"

// CompletionRequest carries one text-completion call's inputs: a system
// prompt establishing the persona or judging instructions, the user
// prompt, and sampling parameters.
type CompletionRequest struct {
	// SystemPrompt frames the model's role for this call. May be empty.
	SystemPrompt string

	// UserPrompt is the content being completed or judged.
	UserPrompt string

	// MaxTokens bounds the generated output length. Zero selects the
	// provider default.
	MaxTokens int

	// Temperature controls sampling randomness (0.0-1.0). Judges use 0
	// for repeatability.
	Temperature float64
}

// TokenUsage reports provider-side token accounting for one completion.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Completion is the result of one gateway call.
type Completion struct {
	// Text is the generated output.
	Text string

	// Usage carries token accounting when the provider reports it.
	Usage TokenUsage
}

// CompletionGateway wraps a text-completion provider behind a single
// call. Implementations must return a catchable error on provider
// failure (timeout, rate limit, invalid key) rather than panicking;
// callers degrade to placeholder results at the point of use and never
// let a gateway failure cross a component boundary.
type CompletionGateway interface {
	// Complete sends one completion request and returns the generated
	// text plus token usage. Implementations should honor context
	// cancellation and deadlines.
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)

	// Model returns the model identifier this gateway targets, for
	// logging and result attribution.
	Model() string
}
