package gateway

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/formul8/orchestra/internal/ports"
)

// rateLimitedLLM enforces request pacing with a token bucket so the
// orchestrator's sequential agent loops and benchmark sweeps stay
// within provider rate limits.
type rateLimitedLLM struct {
	next    CoreLLM
	limiter *rate.Limiter
}

// RateLimitMiddleware creates middleware that enforces a token-bucket
// rate limit. limit is sustained requests per second; burst allows
// temporary spikes above it.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)

	return func(next CoreLLM) CoreLLM {
		return &rateLimitedLLM{next: next, limiter: limiter}
	}
}

// DoRequest blocks until a token is available, then forwards the
// request.
func (r *rateLimitedLLM) DoRequest(ctx context.Context, req ports.CompletionRequest) (string, int, int, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", 0, 0, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.DoRequest(ctx, req)
}

// Model returns the model name from the wrapped implementation.
func (r *rateLimitedLLM) Model() string { return r.next.Model() }
