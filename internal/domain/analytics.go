package domain

import "time"

// Timeframe selects how far back analytics looks when filtering stored
// benchmark results. Windows use calendar-naive day arithmetic.
type Timeframe string

// Supported analytics timeframes.
const (
	TimeframeDay     Timeframe = "day"
	TimeframeWeek    Timeframe = "week"
	TimeframeMonth   Timeframe = "month"
	TimeframeQuarter Timeframe = "quarter"
)

// Window returns the look-back duration for the timeframe. Unknown
// timeframes default to a week.
func (t Timeframe) Window() time.Duration {
	switch t {
	case TimeframeDay:
		return 24 * time.Hour
	case TimeframeWeek:
		return 7 * 24 * time.Hour
	case TimeframeMonth:
		return 30 * 24 * time.Hour
	case TimeframeQuarter:
		return 90 * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

// TrendPoint is one sample in an analytics time series.
type TrendPoint struct {
	// RunAt is the timestamp of the underlying benchmark result.
	RunAt time.Time `json:"run_at"`

	// Value is the sampled metric (score, accuracy, latency, confidence).
	Value float64 `json:"value"`
}

// TestDelta records a per-test-case change between the two most recent
// runs of the same benchmark and agent.
type TestDelta struct {
	// TestCaseID identifies the case that moved.
	TestCaseID string `json:"test_case_id"`

	// Previous is the older run's score for the case.
	Previous float64 `json:"previous"`

	// Current is the newer run's score for the case.
	Current float64 `json:"current"`

	// Delta is the absolute magnitude of the change.
	Delta float64 `json:"delta"`
}

// Analytics summarizes an agent's historical performance on one
// benchmark within a timeframe window.
type Analytics struct {
	BenchmarkID string    `json:"benchmark_id"`
	AgentID     AgentID   `json:"agent_id"`
	Timeframe   Timeframe `json:"timeframe"`

	// ScoreTrend, AccuracyTrend, ResponseTimeTrend, and ConfidenceTrend
	// are parallel series over the surviving results, oldest first.
	ScoreTrend        []TrendPoint `json:"score_trend"`
	AccuracyTrend     []TrendPoint `json:"accuracy_trend"`
	ResponseTimeTrend []TrendPoint `json:"response_time_trend"`
	ConfidenceTrend   []TrendPoint `json:"confidence_trend"`

	// PassRate is the fraction of surviving runs that passed, 0-100.
	PassRate float64 `json:"pass_rate"`

	// Improvement is the percentage change from the first to the last
	// score in the window. Zero when the first score is zero.
	Improvement float64 `json:"improvement"`

	// ConsistencyScore rewards low score variance, clamped to [0,100].
	ConsistencyScore float64 `json:"consistency_score"`

	// Regressions lists test cases whose score dropped by more than the
	// tie band between the two most recent runs.
	Regressions []TestDelta `json:"regressions"`

	// Improvements lists test cases whose score rose by more than the
	// tie band between the two most recent runs.
	Improvements []TestDelta `json:"improvements"`
}
