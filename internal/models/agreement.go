package models

import (
	"fmt"
	"strconv"
)

// AgreementResult is the outcome of a Cohen's Kappa computation. The
// confidence interval is a normal approximation and is deliberately not
// clamped to [-1, 1].
type AgreementResult struct {
	Kappa             float64 `json:"kappa"`
	CILower           float64 `json:"ci_lower"`
	CIUpper           float64 `json:"ci_upper"`
	Interpretation    string  `json:"interpretation"`
	ObservedAgreement float64 `json:"observed_agreement"`
	ExpectedAgreement float64 `json:"expected_agreement"`
	SampleSize        int     `json:"sample_size"`
	ConfidenceLevel   float64 `json:"confidence_level"`
	Description       string  `json:"description,omitempty"`
}

// NormalizeLabels converts a JSON-decoded rating sequence into category
// labels. Elements may be strings or numbers; numbers are accepted only if
// integral, since category codes are discrete.
func NormalizeLabels(raw []interface{}) ([]string, error) {
	labels := make([]string, 0, len(raw))
	for i, v := range raw {
		switch val := v.(type) {
		case string:
			labels = append(labels, val)
		case float64:
			if val != float64(int64(val)) {
				return nil, fmt.Errorf("%w: rating at index %d is not an integer category code", ErrInvalidInput, i)
			}
			labels = append(labels, strconv.FormatInt(int64(val), 10))
		default:
			return nil, fmt.Errorf("%w: rating at index %d must be a string or integer", ErrInvalidInput, i)
		}
	}
	return labels, nil
}
