package service

import (
	"fmt"
	"math"

	"diagbench/internal/models"
)

// AgreementCalculator computes Cohen's Kappa between two raters over an
// arbitrary set of category labels. It is stateless and safe for concurrent
// use.
type AgreementCalculator struct{}

// NewAgreementCalculator creates a new calculator
func NewAgreementCalculator() *AgreementCalculator {
	return &AgreementCalculator{}
}

// Estimate computes kappa, its asymptotic confidence interval and a
// qualitative interpretation. The interval is a normal approximation and is
// not clamped to [-1, 1].
func (ac *AgreementCalculator) Estimate(rater1, rater2 []string, confidenceLevel float64) (models.AgreementResult, error) {
	level, err := normalizeConfidence(confidenceLevel)
	if err != nil {
		return models.AgreementResult{}, err
	}

	if len(rater1) != len(rater2) {
		return models.AgreementResult{}, fmt.Errorf("%w: got %d and %d ratings",
			models.ErrLengthMismatch, len(rater1), len(rater2))
	}
	n := len(rater1)
	if n == 0 {
		return models.AgreementResult{}, fmt.Errorf("%w: rating sequences must not be empty", models.ErrInvalidInput)
	}

	// Index the union of observed categories. The table is k x k, not a
	// fixed 2x2, so multi-category ratings work unchanged.
	index := make(map[string]int)
	for _, seq := range [][]string{rater1, rater2} {
		for _, label := range seq {
			if _, ok := index[label]; !ok {
				index[label] = len(index)
			}
		}
	}
	k := len(index)

	table := make([][]int, k)
	for i := range table {
		table[i] = make([]int, k)
	}
	for i := 0; i < n; i++ {
		table[index[rater1[i]]][index[rater2[i]]]++
	}

	nf := float64(n)

	diagonal := 0
	for i := 0; i < k; i++ {
		diagonal += table[i][i]
	}
	po := float64(diagonal) / nf

	pe := 0.0
	for i := 0; i < k; i++ {
		rowSum := 0
		colSum := 0
		for j := 0; j < k; j++ {
			rowSum += table[i][j]
			colSum += table[j][i]
		}
		pe += (float64(rowSum) / nf) * (float64(colSum) / nf)
	}

	if pe >= 1 {
		return models.AgreementResult{}, fmt.Errorf("%w (all ratings fall in a single category)",
			models.ErrDegenerateAgreement)
	}

	kappa := (po - pe) / (1 - pe)
	se := math.Sqrt(po * (1 - po) / (nf * (1 - pe) * (1 - pe)))
	z := zQuantile(level)

	return models.AgreementResult{
		Kappa:             kappa,
		CILower:           kappa - z*se,
		CIUpper:           kappa + z*se,
		Interpretation:    interpretKappa(kappa),
		ObservedAgreement: po,
		ExpectedAgreement: pe,
		SampleSize:        n,
		ConfidenceLevel:   level,
	}, nil
}

// kappaBands in ascending threshold order; a kappa below the limit takes the
// label, so each stated boundary belongs to the next band up.
var kappaBands = []struct {
	limit float64
	label string
}{
	{0, "Poor agreement (worse than chance)"},
	{0.20, "Slight agreement"},
	{0.40, "Fair agreement"},
	{0.60, "Moderate agreement"},
	{0.80, "Substantial agreement"},
}

func interpretKappa(kappa float64) string {
	for _, band := range kappaBands {
		if kappa < band.limit {
			return band.label
		}
	}
	return "Almost perfect agreement"
}
