package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/formul8/orchestra/internal/domain"
)

func TestConfidenceRangeScore(t *testing.T) {
	band := domain.ConfidenceRange{Min: 60, Max: 90}

	tests := []struct {
		name       string
		confidence float64
		want       float64
	}{
		{name: "inside band", confidence: 75, want: 100},
		{name: "at band minimum", confidence: 60, want: 100},
		{name: "above band is not penalized", confidence: 95, want: 100},
		{name: "slightly below band", confidence: 50, want: 90},
		{name: "far below band floors at zero", confidence: 0, want: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, confidenceRangeScore(tt.confidence, band))
		})
	}
}

func TestResponseTimeScore(t *testing.T) {
	tests := []struct {
		name     string
		actual   int64
		expected int64
		want     float64
	}{
		{name: "within bound", actual: 800, expected: 1000, want: 100},
		{name: "exactly at bound", actual: 1000, expected: 1000, want: 100},
		{name: "fifty percent over", actual: 1500, expected: 1000, want: 50},
		{name: "double the bound floors at zero", actual: 2000, expected: 1000, want: 0},
		{name: "zero bound disables latency scoring", actual: 99999, expected: 0, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, responseTimeScore(tt.actual, tt.expected))
		})
	}
}

func TestTestScoreBlend(t *testing.T) {
	sub := domain.SubScores{Accuracy: 100, Safety: 80, Compliance: 75}
	band := domain.ConfidenceRange{Min: 60, Max: 90}

	// 100*0.4 + 100*0.2 + 100*0.2 + 80*0.1 + 75*0.1
	got := testScore(sub, 75, band, 500, 1000)
	assert.InDelta(t, 95.5, got, 1e-9)

	// Zero sub-scores with out-of-band confidence and slow response.
	got = testScore(domain.SubScores{}, 0, band, 2000, 1000)
	assert.InDelta(t, 40*0.2, got, 1e-9)
}

func TestBuildBreakdown(t *testing.T) {
	results := []domain.TestResult{
		{SubScores: domain.SubScores{Accuracy: 90, Safety: 100, Compliance: 80}, Confidence: 70, ResponseTimeMs: 3000},
		{SubScores: domain.SubScores{Accuracy: 70, Safety: 80, Compliance: 100}, Confidence: 90, ResponseTimeMs: 6000},
	}

	b := buildBreakdown(results)

	assert.InDelta(t, 80, b.Accuracy, 1e-9)
	assert.InDelta(t, 90, b.Safety, 1e-9)
	assert.InDelta(t, 90, b.Compliance, 1e-9)
	assert.InDelta(t, 80, b.Confidence, 1e-9, "confidence dimension is the raw confidence mean")
	// Average latency 4500ms against the 30s floor: 100 - 4500/30000*100.
	assert.InDelta(t, 85, b.ResponseTime, 1e-9)
}

func TestBuildBreakdownEmptyRun(t *testing.T) {
	assert.Equal(t, domain.ScoreBreakdown{}, buildBreakdown(nil))
}

func TestBuildBreakdownErroredTestsEarnNoLatencyCredit(t *testing.T) {
	results := []domain.TestResult{
		{ResponseTimeMs: 2, Errors: []string{"provider down"}},
	}

	b := buildBreakdown(results)
	assert.Zero(t, b.ResponseTime, "a fast failure counts at the latency floor")
	assert.Equal(t, domain.ScoreBreakdown{}, b)
}

func TestOverallScore(t *testing.T) {
	breakdown := domain.ScoreBreakdown{
		Accuracy:     80,
		ResponseTime: 90,
		Confidence:   70,
		Safety:       100,
		Compliance:   100,
	}

	got := overallScore(breakdown, domain.DefaultScoringWeights())
	// 80*0.4 + 90*0.2 + 70*0.2 + 100*0.1 + 100*0.1
	assert.InDelta(t, 84, got, 1e-9)
}

func TestOverallScoreWeightsNeedNotSumToOne(t *testing.T) {
	breakdown := domain.ScoreBreakdown{Accuracy: 50, ResponseTime: 50, Confidence: 50, Safety: 50, Compliance: 50}

	// Deliberately inflated weights: the sum is applied as-is and the
	// result clamps at 100 rather than being renormalized.
	heavy := domain.ScoringWeights{Accuracy: 1, ResponseTime: 1, Confidence: 1, Safety: 1, Compliance: 1}
	assert.Equal(t, 100.0, overallScore(breakdown, heavy))

	light := domain.ScoringWeights{Accuracy: 0.2}
	assert.InDelta(t, 10, overallScore(breakdown, light), 1e-9)
}
