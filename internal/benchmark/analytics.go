package benchmark

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
)

// deltaTieBand is the score movement, in points, below which a per-test
// change between consecutive runs is neither a regression nor an
// improvement.
const deltaTieBand = 5.0

// Analytics derives trend series, pass rate, consistency, and per-test
// regression/improvement deltas from stored benchmark results.
type Analytics struct {
	registry *Registry
	store    ports.DocumentStore
	logger   zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewAnalytics creates an Analytics engine over the same store the
// runner writes to.
func NewAnalytics(registry *Registry, store ports.DocumentStore, logger zerolog.Logger) *Analytics {
	return &Analytics{
		registry: registry,
		store:    store,
		logger:   logger.With().Str("component", "benchmark_analytics").Logger(),
		now:      time.Now,
	}
}

// Get computes analytics for one benchmark+agent pair within the
// timeframe window. It requires at least two stored results for the
// agent; with fewer, or when no result survives the window filter, it
// returns nil with no error, which callers render as "no data".
// An unknown benchmark id is a hard error.
func (a *Analytics) Get(ctx context.Context, benchmarkID string, agentID domain.AgentID, timeframe domain.Timeframe) (*domain.Analytics, error) {
	if _, err := a.registry.Get(ctx, benchmarkID); err != nil {
		return nil, err
	}

	var stored []domain.BenchmarkResult
	if err := a.store.GetList(ctx, collResults, benchmarkID, &stored); err != nil {
		// Corrupted history reads as no data available.
		a.logger.Warn().Err(err).Str("benchmark", benchmarkID).Msg("unreadable result history")
		return nil, nil
	}

	// Filter to this agent's runs, preserving oldest-first order.
	var agentRuns []domain.BenchmarkResult
	for _, res := range stored {
		if res.AgentID == agentID {
			agentRuns = append(agentRuns, res)
		}
	}
	if len(agentRuns) < 2 {
		return nil, nil
	}

	cutoff := a.now().Add(-timeframe.Window())
	var surviving []domain.BenchmarkResult
	for _, res := range agentRuns {
		if !res.RunAt.Before(cutoff) {
			surviving = append(surviving, res)
		}
	}
	if len(surviving) < 1 {
		return nil, nil
	}

	out := &domain.Analytics{
		BenchmarkID: benchmarkID,
		AgentID:     agentID,
		Timeframe:   timeframe,
	}

	scores := make([]float64, len(surviving))
	passes := 0
	for i, res := range surviving {
		scores[i] = res.OverallScore
		if res.Passed {
			passes++
		}
		out.ScoreTrend = append(out.ScoreTrend, domain.TrendPoint{RunAt: res.RunAt, Value: res.OverallScore})
		out.AccuracyTrend = append(out.AccuracyTrend, domain.TrendPoint{RunAt: res.RunAt, Value: res.Breakdown.Accuracy})
		out.ResponseTimeTrend = append(out.ResponseTimeTrend, domain.TrendPoint{RunAt: res.RunAt, Value: avgResponseTimeMs(res)})
		out.ConfidenceTrend = append(out.ConfidenceTrend, domain.TrendPoint{RunAt: res.RunAt, Value: res.Breakdown.Confidence})
	}

	out.PassRate = float64(passes) / float64(len(surviving)) * 100
	out.Improvement = improvement(scores)
	out.ConsistencyScore = consistency(scores)
	out.Regressions, out.Improvements = testDeltas(surviving)
	return out, nil
}

// improvement is the percentage change from the first to the last score.
// A zero first score would make the formula undefined, so it reports
// zero instead.
func improvement(scores []float64) float64 {
	first, last := scores[0], scores[len(scores)-1]
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

// consistency rewards low score variance relative to the series peak:
// 100 - variance/max*100, clamped to [0,100]. An all-zero series is
// perfectly consistent.
func consistency(scores []float64) float64 {
	peak := 0.0
	for _, s := range scores {
		if s > peak {
			peak = s
		}
	}
	if peak == 0 {
		return 100
	}
	return domain.ClampScore(100 - domain.Variance(scores)/peak*100)
}

// testDeltas diffs the two most recent surviving runs, matching test
// cases by id. Moves beyond the tie band classify as regressions or
// improvements; moves within it are ignored.
func testDeltas(surviving []domain.BenchmarkResult) (regressions, improvements []domain.TestDelta) {
	if len(surviving) < 2 {
		return nil, nil
	}
	previous := surviving[len(surviving)-2]
	current := surviving[len(surviving)-1]

	prevScores := make(map[string]float64, len(previous.PerTestResults))
	for _, tr := range previous.PerTestResults {
		prevScores[tr.TestCaseID] = tr.Score
	}

	for _, tr := range current.PerTestResults {
		prev, ok := prevScores[tr.TestCaseID]
		if !ok {
			continue
		}
		switch {
		case prev-tr.Score > deltaTieBand:
			regressions = append(regressions, domain.TestDelta{
				TestCaseID: tr.TestCaseID,
				Previous:   prev,
				Current:    tr.Score,
				Delta:      prev - tr.Score,
			})
		case tr.Score-prev > deltaTieBand:
			improvements = append(improvements, domain.TestDelta{
				TestCaseID: tr.TestCaseID,
				Previous:   prev,
				Current:    tr.Score,
				Delta:      tr.Score - prev,
			})
		}
	}
	return regressions, improvements
}

// avgResponseTimeMs is the mean raw latency across a run's test results.
func avgResponseTimeMs(res domain.BenchmarkResult) float64 {
	if len(res.PerTestResults) == 0 {
		return 0
	}
	var sum float64
	for _, tr := range res.PerTestResults {
		sum += float64(tr.ResponseTimeMs)
	}
	return sum / float64(len(res.PerTestResults))
}
