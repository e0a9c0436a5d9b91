package gateway

import (
	"context"
	"time"

	"github.com/formul8/orchestra/internal/ports"
)

// timeoutLLM bounds individual requests so a slow provider degrades to
// the caller's placeholder/zero-score fallback instead of blocking a
// session indefinitely.
type timeoutLLM struct {
	next    CoreLLM
	timeout time.Duration
}

// TimeoutMiddleware creates middleware that enforces a per-call timeout.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &timeoutLLM{next: next, timeout: timeout}
	}
}

// DoRequest executes the request under a deadline; exceeding it returns
// a context deadline exceeded error.
func (t *timeoutLLM) DoRequest(ctx context.Context, req ports.CompletionRequest) (string, int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DoRequest(ctx, req)
}

// Model returns the model name from the wrapped implementation.
func (t *timeoutLLM) Model() string { return t.next.Model() }
