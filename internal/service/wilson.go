package service

import (
	"fmt"
	"math"

	"diagbench/internal/models"
)

// DefaultConfidenceLevel is used when a request leaves the level unset.
const DefaultConfidenceLevel = 0.95

// Accepted confidence level range, inclusive on both ends.
const (
	minConfidenceLevel = 0.5
	maxConfidenceLevel = 0.99
)

// normalizeConfidence applies the default for an unset level and range-checks
// an explicit one.
func normalizeConfidence(level float64) (float64, error) {
	if level == 0 {
		return DefaultConfidenceLevel, nil
	}
	if level < minConfidenceLevel || level > maxConfidenceLevel {
		return 0, fmt.Errorf("%w: confidence_level must be between %.2f and %.2f",
			models.ErrInvalidInput, minConfidenceLevel, maxConfidenceLevel)
	}
	return level, nil
}

// zQuantile returns the two-sided standard normal quantile for the given
// confidence level, e.g. 1.96 for 0.95.
func zQuantile(confidenceLevel float64) float64 {
	p := 1 - (1-confidenceLevel)/2
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

// wilsonInterval computes the Wilson score interval for successes out of
// trials at the given z. A zero-trial pair collapses to (0, 0, 0). Bounds are
// clamped to [0, 1]; the point estimate always lies within them.
func wilsonInterval(successes, trials int, z float64) models.ProportionEstimate {
	if trials == 0 {
		return models.ProportionEstimate{}
	}

	n := float64(trials)
	p := float64(successes) / n
	z2 := z * z

	denom := 1 + z2/n
	centre := (p + z2/(2*n)) / denom
	margin := z * math.Sqrt((p*(1-p)+z2/(4*n))/n) / denom

	lower := math.Max(0, centre-margin)
	upper := math.Min(1, centre+margin)

	// The interval contains p in exact arithmetic; rounding at p = 0 or 1
	// can still push a bound past it by an ulp.
	if lower > p {
		lower = p
	}
	if upper < p {
		upper = p
	}

	return models.ProportionEstimate{
		Value:   p,
		CILower: lower,
		CIUpper: upper,
	}
}

// safeRatio divides with a defined 0 fallback on a zero denominator.
func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
