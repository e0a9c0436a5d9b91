package benchmark

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
)

// Runner defaults; both are configurable, not hard-coded, at the
// application layer.
const (
	// DefaultTestPassThreshold is the fixed per-test pass score. It is
	// independent of a definition's PassingScore, which gates the
	// overall run; the two thresholds deliberately coexist.
	DefaultTestPassThreshold = 70.0

	// DefaultResultRetention is how many results are kept per benchmark,
	// oldest evicted first.
	DefaultResultRetention = 50
)

// RunnerConfig carries the runner's tunable thresholds.
type RunnerConfig struct {
	// TestPassThreshold is the per-test pass score. Zero selects
	// DefaultTestPassThreshold.
	TestPassThreshold float64

	// ResultRetention caps stored results per benchmark. Zero selects
	// DefaultResultRetention.
	ResultRetention int
}

// Runner executes benchmark definitions against agents, producing
// append-only BenchmarkResults. Runs for the same benchmark+agent pair
// are serialized through per-key locks so the append-and-evict on the
// result list stays atomic.
type Runner struct {
	registry   *Registry
	agents     ports.AgentRegistry
	validators *ValidatorSet
	store      ports.DocumentStore
	metrics    ports.MetricsCollector
	logger     zerolog.Logger
	tracer     trace.Tracer

	threshold float64
	retention int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRunner creates a Runner. metrics may be nil to disable recording.
func NewRunner(registry *Registry, agents ports.AgentRegistry, validators *ValidatorSet, store ports.DocumentStore, metrics ports.MetricsCollector, cfg RunnerConfig, logger zerolog.Logger) *Runner {
	threshold := cfg.TestPassThreshold
	if threshold <= 0 {
		threshold = DefaultTestPassThreshold
	}
	retention := cfg.ResultRetention
	if retention <= 0 {
		retention = DefaultResultRetention
	}

	return &Runner{
		registry:   registry,
		agents:     agents,
		validators: validators,
		store:      store,
		metrics:    metrics,
		logger:     logger.With().Str("component", "benchmark_runner").Logger(),
		tracer:     otel.Tracer("benchmark-runner"),
		threshold:  threshold,
		retention:  retention,
		locks:      map[string]*sync.Mutex{},
	}
}

// Run executes one benchmark definition against one agent. Unknown
// benchmark or agent ids are hard errors; every per-test failure is
// recovered into a zero-scored TestResult so the run always completes
// with one result per test case.
func (r *Runner) Run(ctx context.Context, benchmarkID string, agentID domain.AgentID) (*domain.BenchmarkResult, error) {
	def, err := r.registry.Get(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}
	agent, err := r.agents.Lookup(agentID)
	if err != nil {
		return nil, err
	}

	lock := r.keyLock(benchmarkID + "/" + string(agentID))
	lock.Lock()
	defer lock.Unlock()

	ctx, span := r.tracer.Start(ctx, "BenchmarkRunner.Run",
		trace.WithAttributes(
			attribute.String("benchmark.id", benchmarkID),
			attribute.String("agent.id", string(agentID)),
			attribute.Int("benchmark.test_cases", len(def.TestCases)),
		),
	)
	defer span.End()

	start := time.Now()
	perTest := make([]domain.TestResult, 0, len(def.TestCases))
	for _, tc := range def.TestCases {
		perTest = append(perTest, r.runTestCase(ctx, agent, tc))
	}

	breakdown := buildBreakdown(perTest)
	overall := overallScore(breakdown, def.Weights)
	result := &domain.BenchmarkResult{
		ID:              uuid.NewString(),
		BenchmarkID:     benchmarkID,
		AgentID:         agentID,
		PerTestResults:  perTest,
		OverallScore:    overall,
		Breakdown:       breakdown,
		Passed:          overall >= def.PassingScore,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		RunAt:           time.Now().UTC(),
	}

	if err := r.store.AppendToList(ctx, collResults, benchmarkID, result, r.retention); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("persisting result for %s: %w", benchmarkID, err)
	}

	span.SetAttributes(
		attribute.Float64("benchmark.overall_score", overall),
		attribute.Bool("benchmark.passed", result.Passed),
	)
	if r.metrics != nil {
		labels := map[string]string{"benchmark": benchmarkID, "agent": string(agentID)}
		r.metrics.RecordHistogram("benchmark_overall_score", overall, labels)
		r.metrics.RecordLatency("benchmark_run", time.Since(start), labels)
	}
	r.logger.Info().
		Str("benchmark", benchmarkID).
		Str("agent", string(agentID)).
		Float64("score", overall).
		Bool("passed", result.Passed).
		Msg("benchmark run completed")

	return result, nil
}

// RunAll executes every active definition applicable to the agent,
// either explicitly or via "all". Individual run failures are logged
// and skipped so one broken suite does not block the sweep.
func (r *Runner) RunAll(ctx context.Context, agentID domain.AgentID) ([]*domain.BenchmarkResult, error) {
	if _, err := r.agents.Lookup(agentID); err != nil {
		return nil, err
	}

	defs, err := r.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	var results []*domain.BenchmarkResult
	for _, def := range defs {
		if !def.Active || !def.AppliesTo(agentID) {
			continue
		}
		result, err := r.Run(ctx, def.ID, agentID)
		if err != nil {
			r.logger.Error().Err(err).Str("benchmark", def.ID).Msg("run failed during sweep")
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// Results returns the stored results for a benchmark, oldest first.
// Unknown benchmark ids are hard errors; a known benchmark with no runs
// yields an empty slice.
func (r *Runner) Results(ctx context.Context, benchmarkID string) ([]domain.BenchmarkResult, error) {
	if _, err := r.registry.Get(ctx, benchmarkID); err != nil {
		return nil, err
	}
	var results []domain.BenchmarkResult
	if err := r.store.GetList(ctx, collResults, benchmarkID, &results); err != nil {
		// Corrupted result history reads as empty rather than failing
		// the dashboard.
		r.logger.Warn().Err(err).Str("benchmark", benchmarkID).Msg("unreadable result history")
		return nil, nil
	}
	return results, nil
}

// runTestCase invokes the agent, times it, validates the response, and
// blends the per-test score. Any failure produces a zero-scored result
// with the error recorded instead of aborting the run.
func (r *Runner) runTestCase(ctx context.Context, agent ports.SpecializedAgent, tc domain.TestCase) domain.TestResult {
	started := time.Now()
	opinion := agent.Answer(ctx, tc.Query, nil)
	elapsed := time.Since(started).Milliseconds()

	result := domain.TestResult{
		TestCaseID:     tc.ID,
		ResponseText:   opinion.ResponseText,
		Confidence:     opinion.Confidence,
		ResponseTimeMs: elapsed,
	}

	// A failed invocation carries an error message, not an answer; grading
	// it would award heuristic sub-scores and a perfect response time for
	// failing fast. Score zero and record the error instead.
	if opinion.Failed {
		result.Errors = append(result.Errors, opinion.ResponseText)
		return result
	}

	sub, err := r.validators.Validate(ctx, tc, opinion.ResponseText, opinion.Confidence)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Score = 0
		result.Passed = false
		return result
	}

	result.SubScores = sub
	result.Score = testScore(sub, opinion.Confidence, tc.ExpectedConfidence, elapsed, tc.ExpectedResponseTimeMs)
	result.Passed = result.Score >= r.threshold
	return result
}

// keyLock returns the mutex serializing runs for one benchmark+agent
// pair, creating it on first use.
func (r *Runner) keyLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}
