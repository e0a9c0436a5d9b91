package gateway

import (
	"context"
	"time"

	"github.com/formul8/orchestra/internal/ports"
)

// metricsLLM collects request latency, counts, and token usage for
// operational monitoring.
type metricsLLM struct {
	next      CoreLLM
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that records request metrics
// through the collector.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{next: next, collector: collector}
	}
}

// DoRequest executes the request while recording latency, status, and
// token counts.
func (m *metricsLLM) DoRequest(ctx context.Context, req ports.CompletionRequest) (string, int, int, error) {
	start := time.Now()
	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, req)

	labels := map[string]string{
		"model":  m.next.Model(),
		"status": "success",
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			labels["status"] = "timeout"
		} else {
			labels["status"] = "error"
		}
	}

	if m.collector != nil {
		m.collector.RecordLatency("gateway_request", time.Since(start), labels)
		m.collector.RecordCounter("gateway_requests_total", 1, labels)

		if err == nil {
			labels["token_type"] = "input"
			m.collector.RecordCounter("gateway_tokens_total", float64(tokensIn), labels)

			labels["token_type"] = "output"
			m.collector.RecordCounter("gateway_tokens_total", float64(tokensOut), labels)
		}
	}

	return response, tokensIn, tokensOut, err
}

// Model returns the model name from the wrapped implementation.
func (m *metricsLLM) Model() string { return m.next.Model() }
