package gateway

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/formul8/orchestra/internal/ports"
)

// tracedLLM emits an OpenTelemetry span per request for debugging and
// latency analysis across the orchestration pipeline.
type tracedLLM struct {
	next   CoreLLM
	tracer trace.Tracer
}

// TracingMiddleware creates middleware that wraps each request in a
// span named gateway.complete under the given service name.
func TracingMiddleware(serviceName string) Middleware {
	tracer := otel.Tracer(serviceName)
	return func(next CoreLLM) CoreLLM {
		return &tracedLLM{next: next, tracer: tracer}
	}
}

// DoRequest executes the request inside a span carrying model and
// prompt-size attributes plus token usage on success.
func (t *tracedLLM) DoRequest(ctx context.Context, req ports.CompletionRequest) (string, int, int, error) {
	ctx, span := t.tracer.Start(ctx, "gateway.complete",
		trace.WithAttributes(
			attribute.String("llm.model", t.next.Model()),
			attribute.Int("llm.prompt.length", len(req.SystemPrompt)+len(req.UserPrompt)),
			attribute.Int("llm.max_tokens", req.MaxTokens),
		),
	)
	defer span.End()

	response, tokensIn, tokensOut, err := t.next.DoRequest(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.Int("llm.tokens.input", tokensIn),
			attribute.Int("llm.tokens.output", tokensOut),
		)
	}

	return response, tokensIn, tokensOut, err
}

// Model returns the model name from the wrapped implementation.
func (t *tracedLLM) Model() string { return t.next.Model() }
