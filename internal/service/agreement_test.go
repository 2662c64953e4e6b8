package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagbench/internal/models"
)

func TestKappaThreeCategoryScenario(t *testing.T) {
	ac := NewAgreementCalculator()

	rater1 := []string{"1", "2", "1", "3", "2", "1", "3"}
	rater2 := []string{"1", "1", "1", "3", "2", "2", "3"}

	res, err := ac.Estimate(rater1, rater2, 0.95)
	require.NoError(t, err)

	// Hand-computed contingency table: po = 5/7, pe = 17/49,
	// kappa = (5/7 - 17/49) / (1 - 17/49) = 18/32.
	assert.InDelta(t, 5.0/7.0, res.ObservedAgreement, 1e-9)
	assert.InDelta(t, 17.0/49.0, res.ExpectedAgreement, 1e-9)
	assert.InDelta(t, 0.5625, res.Kappa, 1e-9)
	assert.Equal(t, 7, res.SampleSize)
	assert.Equal(t, "Moderate agreement", res.Interpretation)

	// se = sqrt(po(1-po) / (n(1-pe)^2)) ~= 0.26146 at n=7.
	assert.InDelta(t, 0.0500, res.CILower, 1e-3)
	assert.InDelta(t, 1.0750, res.CIUpper, 1e-3)

	// The asymptotic interval is intentionally unclamped.
	assert.Greater(t, res.CIUpper, 1.0)
}

func TestKappaPerfectAgreement(t *testing.T) {
	ac := NewAgreementCalculator()

	seq := []string{"a", "b", "a", "c", "b"}
	res, err := ac.Estimate(seq, seq, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.Kappa, 1e-9)
	assert.InDelta(t, 1.0, res.ObservedAgreement, 1e-9)
	assert.Less(t, res.ExpectedAgreement, 1.0)
	// po = 1 makes the standard error collapse to zero.
	assert.InDelta(t, 1.0, res.CILower, 1e-9)
	assert.InDelta(t, 1.0, res.CIUpper, 1e-9)
	assert.Equal(t, "Almost perfect agreement", res.Interpretation)
}

func TestKappaNonPositiveWhenChanceBeatsObserved(t *testing.T) {
	ac := NewAgreementCalculator()

	// Complete disagreement: po = 0 while pe = 0.5.
	res, err := ac.Estimate(
		[]string{"a", "a", "b", "b"},
		[]string{"b", "b", "a", "a"},
		0.95,
	)
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Kappa, 0.0)
	assert.InDelta(t, -1.0, res.Kappa, 1e-9)
	assert.Equal(t, "Poor agreement (worse than chance)", res.Interpretation)
}

func TestKappaLengthMismatch(t *testing.T) {
	ac := NewAgreementCalculator()

	_, err := ac.Estimate([]string{"1", "2", "3"}, []string{"1", "2"}, 0.95)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrLengthMismatch))
}

func TestKappaEmptySequences(t *testing.T) {
	ac := NewAgreementCalculator()

	_, err := ac.Estimate(nil, nil, 0.95)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestKappaSingleCategoryIsDegenerate(t *testing.T) {
	ac := NewAgreementCalculator()

	seq := []string{"x", "x", "x", "x"}
	_, err := ac.Estimate(seq, seq, 0.95)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDegenerateAgreement))
}

func TestInterpretKappaBands(t *testing.T) {
	cases := []struct {
		kappa float64
		want  string
	}{
		{-0.1, "Poor agreement (worse than chance)"},
		{0, "Slight agreement"},
		{0.19, "Slight agreement"},
		{0.20, "Fair agreement"},
		{0.39, "Fair agreement"},
		{0.40, "Moderate agreement"},
		{0.5, "Moderate agreement"},
		{0.60, "Substantial agreement"},
		{0.79, "Substantial agreement"},
		{0.80, "Almost perfect agreement"},
		{0.85, "Almost perfect agreement"},
		{1.0, "Almost perfect agreement"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, interpretKappa(tc.kappa), "kappa=%v", tc.kappa)
	}
}
