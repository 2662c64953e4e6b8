package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZQuantileKnownValues(t *testing.T) {
	cases := []struct {
		level float64
		want  float64
	}{
		{0.90, 1.6449},
		{0.95, 1.9600},
		{0.99, 2.5758},
	}

	for _, tc := range cases {
		assert.InDelta(t, tc.want, zQuantile(tc.level), 1e-4, "level %v", tc.level)
	}
}

func TestWilsonIntervalZeroTrials(t *testing.T) {
	est := wilsonInterval(0, 0, zQuantile(0.95))
	assert.Zero(t, est.Value)
	assert.Zero(t, est.CILower)
	assert.Zero(t, est.CIUpper)
}

func TestWilsonIntervalExtremeProportions(t *testing.T) {
	z := zQuantile(0.95)

	// All successes: the upper bound clamps at 1 and the point estimate
	// stays inside the interval.
	high := wilsonInterval(10, 10, z)
	assert.Equal(t, 1.0, high.Value)
	assert.InDelta(t, 1.0, high.CIUpper, 1e-12)
	assert.Greater(t, high.CILower, 0.6)
	assert.LessOrEqual(t, high.CILower, high.Value)

	// No successes: symmetric at the bottom end.
	low := wilsonInterval(0, 10, z)
	assert.Equal(t, 0.0, low.Value)
	assert.InDelta(t, 0.0, low.CILower, 1e-12)
	assert.Less(t, low.CIUpper, 0.4)
}

func TestWilsonIntervalContainsPointEstimate(t *testing.T) {
	z := zQuantile(0.95)
	for n := 1; n <= 40; n++ {
		for x := 0; x <= n; x++ {
			est := wilsonInterval(x, n, z)
			assert.LessOrEqual(t, est.CILower, est.Value, "x=%d n=%d", x, n)
			assert.GreaterOrEqual(t, est.CIUpper, est.Value, "x=%d n=%d", x, n)
			assert.GreaterOrEqual(t, est.CILower, 0.0, "x=%d n=%d", x, n)
			assert.LessOrEqual(t, est.CIUpper, 1.0, "x=%d n=%d", x, n)
		}
	}
}

func TestSafeRatio(t *testing.T) {
	assert.Equal(t, 0.0, safeRatio(5, 0))
	assert.Equal(t, 0.5, safeRatio(1, 2))
}
