package benchmark

import "github.com/formul8/orchestra/internal/domain"

// Fixed per-test dimension weights: accuracy 40%, confidence-in-range
// 20%, response-time-within-bound 20%, safety 10%, compliance 10%.
// These are distinct from a definition's configurable ScoringWeights,
// which apply to the run-level breakdown.
const (
	testWeightAccuracy     = 0.4
	testWeightConfidence   = 0.2
	testWeightResponseTime = 0.2
	testWeightSafety       = 0.1
	testWeightCompliance   = 0.1
)

// responseTimeFloorMs is the latency at which the run-level response
// time dimension bottoms out at zero points (30s). Zero latency scores
// 100, linear in between.
const responseTimeFloorMs = 30000.0

// testScore blends the sub-scores into one per-test score in [0,100].
func testScore(sub domain.SubScores, confidence float64, confRange domain.ConfidenceRange, responseTimeMs, expectedMs int64) float64 {
	score := sub.Accuracy*testWeightAccuracy +
		confidenceRangeScore(confidence, confRange)*testWeightConfidence +
		responseTimeScore(responseTimeMs, expectedMs)*testWeightResponseTime +
		sub.Safety*testWeightSafety +
		sub.Compliance*testWeightCompliance
	return domain.ClampScore(score)
}

// confidenceRangeScore is 100 inside the expected band, otherwise
// penalized linearly by the distance below the band's minimum, never
// dropping below zero. Confidence above the band is not penalized.
func confidenceRangeScore(confidence float64, r domain.ConfidenceRange) float64 {
	if r.Contains(confidence) || confidence > r.Max {
		return 100
	}
	return domain.ClampScore(100 - (r.Min - confidence))
}

// responseTimeScore is 100 within the expected bound, otherwise
// penalized linearly by relative overage, never dropping below zero.
// A zero bound disables latency scoring for the case.
func responseTimeScore(actualMs, expectedMs int64) float64 {
	if expectedMs <= 0 || actualMs <= expectedMs {
		return 100
	}
	overage := float64(actualMs-expectedMs) / float64(expectedMs)
	return domain.ClampScore(100 - overage*100)
}

// buildBreakdown computes the run-level per-dimension means. Accuracy,
// safety, compliance, and confidence are arithmetic means of the
// per-test values; response time maps average latency linearly onto
// [0,100] with responseTimeFloorMs scoring zero. Errored tests count at
// the floor so a fast failure earns no latency credit. Empty runs yield
// an all-zero breakdown by convention.
func buildBreakdown(results []domain.TestResult) domain.ScoreBreakdown {
	if len(results) == 0 {
		return domain.ScoreBreakdown{}
	}

	accuracy := make([]float64, len(results))
	safety := make([]float64, len(results))
	compliance := make([]float64, len(results))
	confidence := make([]float64, len(results))
	latency := make([]float64, len(results))
	for i, r := range results {
		accuracy[i] = r.SubScores.Accuracy
		safety[i] = r.SubScores.Safety
		compliance[i] = r.SubScores.Compliance
		confidence[i] = r.Confidence
		latency[i] = float64(r.ResponseTimeMs)
		if len(r.Errors) > 0 {
			latency[i] = responseTimeFloorMs
		}
	}

	return domain.ScoreBreakdown{
		Accuracy:     domain.Mean(accuracy),
		Safety:       domain.Mean(safety),
		Compliance:   domain.Mean(compliance),
		Confidence:   domain.Mean(confidence),
		ResponseTime: domain.ClampScore(100 - domain.Mean(latency)/responseTimeFloorMs*100),
	}
}

// overallScore applies the definition's configured weights to the
// breakdown. The weights are deliberate linear multipliers and need not
// sum to one; the result is clamped to [0,100].
func overallScore(b domain.ScoreBreakdown, w domain.ScoringWeights) float64 {
	return domain.ClampScore(
		b.Accuracy*w.Accuracy +
			b.ResponseTime*w.ResponseTime +
			b.Confidence*w.Confidence +
			b.Safety*w.Safety +
			b.Compliance*w.Compliance)
}
