package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formul8/orchestra/infrastructure/storage"
	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
)

type analyticsFixture struct {
	store     ports.DocumentStore
	registry  *Registry
	analytics *Analytics
	now       time.Time
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()

	store := storage.NewMemoryStore()
	registry := NewRegistry(store, zerolog.Nop())
	require.NoError(t, registry.Create(context.Background(), testDefinition("bench-1")))

	analytics := NewAnalytics(registry, store, zerolog.Nop())
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	analytics.now = func() time.Time { return now }

	return &analyticsFixture{store: store, registry: registry, analytics: analytics, now: now}
}

func (fx *analyticsFixture) seedResult(t *testing.T, agent domain.AgentID, score float64, age time.Duration, perTest ...domain.TestResult) {
	t.Helper()
	result := domain.BenchmarkResult{
		ID:             "run-" + time.Duration(age).String() + "-" + string(agent),
		BenchmarkID:    "bench-1",
		AgentID:        agent,
		PerTestResults: perTest,
		OverallScore:   score,
		Breakdown:      domain.ScoreBreakdown{Accuracy: score, Confidence: 70},
		Passed:         score >= 70,
		RunAt:          fx.now.Add(-age),
	}
	require.NoError(t, fx.store.AppendToList(context.Background(), collResults, "bench-1", result, 0))
}

func TestAnalyticsUnknownBenchmark(t *testing.T) {
	fx := newAnalyticsFixture(t)

	_, err := fx.analytics.Get(context.Background(), "missing", domain.AgentScience, domain.TimeframeWeek)
	assert.ErrorIs(t, err, domain.ErrBenchmarkNotFound)
}

func TestAnalyticsInsufficientHistory(t *testing.T) {
	fx := newAnalyticsFixture(t)
	ctx := context.Background()

	// No results at all.
	got, err := fx.analytics.Get(ctx, "bench-1", domain.AgentScience, domain.TimeframeWeek)
	require.NoError(t, err)
	assert.Nil(t, got)

	// One result is still below the minimum of two.
	fx.seedResult(t, domain.AgentScience, 80, time.Hour)
	got, err = fx.analytics.Get(ctx, "bench-1", domain.AgentScience, domain.TimeframeWeek)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAnalyticsFiltersOtherAgents(t *testing.T) {
	fx := newAnalyticsFixture(t)
	ctx := context.Background()

	// Two runs exist, but they belong to another agent.
	fx.seedResult(t, domain.AgentMarketing, 80, 2*time.Hour)
	fx.seedResult(t, domain.AgentMarketing, 85, time.Hour)

	got, err := fx.analytics.Get(ctx, "bench-1", domain.AgentScience, domain.TimeframeWeek)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAnalyticsWindowFiltering(t *testing.T) {
	fx := newAnalyticsFixture(t)
	ctx := context.Background()

	// Two old runs qualify the pair, but both fall outside a day window.
	fx.seedResult(t, domain.AgentScience, 80, 3*24*time.Hour)
	fx.seedResult(t, domain.AgentScience, 85, 2*24*time.Hour)

	got, err := fx.analytics.Get(ctx, "bench-1", domain.AgentScience, domain.TimeframeDay)
	require.NoError(t, err)
	assert.Nil(t, got, "no survivors inside the window reads as no data")

	// The same history within a week window produces analytics.
	got, err = fx.analytics.Get(ctx, "bench-1", domain.AgentScience, domain.TimeframeWeek)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.ScoreTrend, 2)
}

func TestAnalyticsTrendsAndImprovement(t *testing.T) {
	fx := newAnalyticsFixture(t)
	ctx := context.Background()

	fx.seedResult(t, domain.AgentScience, 60, 3*time.Hour)
	fx.seedResult(t, domain.AgentScience, 75, 2*time.Hour)
	fx.seedResult(t, domain.AgentScience, 90, time.Hour)

	got, err := fx.analytics.Get(ctx, "bench-1", domain.AgentScience, domain.TimeframeWeek)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.Len(t, got.ScoreTrend, 3)
	assert.Equal(t, 60.0, got.ScoreTrend[0].Value)
	assert.Equal(t, 90.0, got.ScoreTrend[2].Value)
	assert.Len(t, got.AccuracyTrend, 3)
	assert.Len(t, got.ConfidenceTrend, 3)
	assert.Len(t, got.ResponseTimeTrend, 3)

	// (90-60)/60 * 100
	assert.InDelta(t, 50, got.Improvement, 1e-9)
	// Two of three runs pass the 70 threshold used when seeding.
	assert.InDelta(t, 200.0/3.0, got.PassRate, 1e-6)
	assert.Greater(t, got.ConsistencyScore, 0.0)
	assert.LessOrEqual(t, got.ConsistencyScore, 100.0)
}

func TestAnalyticsImprovementZeroBaseline(t *testing.T) {
	fx := newAnalyticsFixture(t)
	ctx := context.Background()

	fx.seedResult(t, domain.AgentScience, 0, 2*time.Hour)
	fx.seedResult(t, domain.AgentScience, 50, time.Hour)

	got, err := fx.analytics.Get(ctx, "bench-1", domain.AgentScience, domain.TimeframeWeek)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Zero(t, got.Improvement, "zero baseline reports zero instead of dividing")
}

func TestAnalyticsConsistency(t *testing.T) {
	assert.Equal(t, 100.0, consistency([]float64{0, 0, 0}), "all-zero series is perfectly consistent")
	assert.Equal(t, 100.0, consistency([]float64{80, 80, 80}), "no variance is perfectly consistent")
	assert.Less(t, consistency([]float64{10, 90, 10, 90}), 50.0)
}

func TestAnalyticsTestDeltas(t *testing.T) {
	fx := newAnalyticsFixture(t)
	ctx := context.Background()

	previous := []domain.TestResult{
		{TestCaseID: "tc-reg", Score: 90},
		{TestCaseID: "tc-imp", Score: 60},
		{TestCaseID: "tc-tie", Score: 80},
		{TestCaseID: "tc-gone", Score: 70},
	}
	current := []domain.TestResult{
		{TestCaseID: "tc-reg", Score: 70},
		{TestCaseID: "tc-imp", Score: 85},
		{TestCaseID: "tc-tie", Score: 84},
		{TestCaseID: "tc-new", Score: 50},
	}

	fx.seedResult(t, domain.AgentScience, 75, 2*time.Hour, previous...)
	fx.seedResult(t, domain.AgentScience, 72, time.Hour, current...)

	got, err := fx.analytics.Get(ctx, "bench-1", domain.AgentScience, domain.TimeframeWeek)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.Len(t, got.Regressions, 1)
	assert.Equal(t, "tc-reg", got.Regressions[0].TestCaseID)
	assert.InDelta(t, 20, got.Regressions[0].Delta, 1e-9)

	require.Len(t, got.Improvements, 1)
	assert.Equal(t, "tc-imp", got.Improvements[0].TestCaseID)
	assert.InDelta(t, 25, got.Improvements[0].Delta, 1e-9)
}
