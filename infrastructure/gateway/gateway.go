// Package gateway implements the completion gateway port over multiple
// LLM providers with built-in support for retries, rate limiting,
// per-call timeouts, metrics, and tracing.
//
// Provider implementations are abstracted behind the CoreLLM interface
// and wrapped by a middleware chain, so applications can switch
// providers or add operational features without changing caller code.
//
// Basic usage:
//
//	gw, err := gateway.New("openai", gateway.Config{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o-mini",
//	})
//	completion, err := gw.Complete(ctx, ports.CompletionRequest{...})
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/formul8/orchestra/internal/ports"
)

// DefaultMaxTokens is applied when a request leaves MaxTokens unset.
const DefaultMaxTokens = 1024

// CoreLLM is the minimal interface a provider must implement. The
// middleware chain wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends one completion request to the provider and returns
	// the generated text plus input/output token counts.
	DoRequest(ctx context.Context, req ports.CompletionRequest) (text string, tokensIn, tokensOut int, err error)

	// Model returns the configured model identifier.
	Model() string
}

// Middleware wraps a CoreLLM to add cross-cutting behavior. Middleware
// composes without modifying provider logic.
type Middleware func(CoreLLM) CoreLLM

// Config holds all options for constructing a gateway.
type Config struct {
	// APIKey authenticates requests to the provider.
	APIKey string

	// Model selects the model; empty selects the provider default.
	Model string

	// BaseURL overrides the provider's default endpoint when non-empty.
	BaseURL string

	// Timeout bounds individual requests when positive.
	Timeout time.Duration

	// Middleware is applied in order, first entry outermost.
	Middleware []Middleware
}

// providerFactory constructs a CoreLLM from a Config.
type providerFactory func(Config) (CoreLLM, error)

var providerFactories = map[string]providerFactory{}

// RegisterProviderFactory installs a named provider constructor.
// Providers self-register from init functions.
func RegisterProviderFactory(name string, factory providerFactory) {
	providerFactories[name] = factory
}

var _ ports.CompletionGateway = (*Gateway)(nil)

// Gateway implements ports.CompletionGateway by delegating to a
// middleware-wrapped provider.
type Gateway struct {
	core CoreLLM
}

// New creates a Gateway for the named provider ("openai", "anthropic",
// or "google") with the middleware chain assembled.
func New(provider string, config Config) (*Gateway, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	factory, ok := providerFactories[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("creating %s provider: %w", provider, err)
	}

	// Apply middleware in reverse so the first entry is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Gateway{core: core}, nil
}

// Complete sends one completion request through the middleware chain.
func (g *Gateway) Complete(ctx context.Context, req ports.CompletionRequest) (ports.Completion, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}

	text, tokensIn, tokensOut, err := g.core.DoRequest(ctx, req)
	if err != nil {
		return ports.Completion{}, ports.NewGatewayError(g.core.Model(), "complete", err)
	}

	return ports.Completion{
		Text: text,
		Usage: ports.TokenUsage{
			InputTokens:  tokensIn,
			OutputTokens: tokensOut,
		},
	}, nil
}

// Model returns the underlying provider's model identifier.
func (g *Gateway) Model() string { return g.core.Model() }

// estimateTokens approximates a token count from text length, used when
// a provider response omits usage accounting. Four characters per token
// is a common approximation for English text.
func estimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text) / 4
}

// tokenCount prefers the provider-reported count, falling back to
// estimation when it is zero.
func tokenCount(actual int, text string) int {
	if actual > 0 {
		return actual
	}
	return estimateTokens(text)
}
