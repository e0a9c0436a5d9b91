package domain

// ClampScore bounds a score to the canonical [0,100] range. Every score
// the core computes passes through this before being stored or returned.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Mean returns the arithmetic mean of the values, or zero for an empty
// slice. The empty-slice convention backs the all-zero breakdown rule for
// empty benchmark runs.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the population variance of the values, or zero for
// fewer than two samples.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}
