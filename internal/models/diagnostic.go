package models

import (
	"fmt"
	"time"
)

// ConfusionCounts holds the four cells of a 2x2 confusion matrix.
type ConfusionCounts struct {
	TruePositives  int `json:"true_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
}

// Total returns the number of classified samples.
func (c ConfusionCounts) Total() int {
	return c.TruePositives + c.TrueNegatives + c.FalsePositives + c.FalseNegatives
}

// Validate checks non-negativity of each cell and a positive total.
func (c ConfusionCounts) Validate() error {
	if c.TruePositives < 0 || c.TrueNegatives < 0 || c.FalsePositives < 0 || c.FalseNegatives < 0 {
		return fmt.Errorf("%w: confusion counts must be non-negative", ErrInvalidInput)
	}
	if c.Total() == 0 {
		return fmt.Errorf("%w: confusion matrix total must be positive", ErrInvalidInput)
	}
	return nil
}

// ProportionEstimate is a point estimate with its Wilson score interval.
// Invariant: CILower <= Value <= CIUpper after clamping to [0, 1].
type ProportionEstimate struct {
	Value   float64 `json:"value"`
	CILower float64 `json:"ci_lower"`
	CIUpper float64 `json:"ci_upper"`
}

// DiagnosticMetrics groups the five interval-carrying proportions plus
// prevalence, which is reported as a bare scalar.
type DiagnosticMetrics struct {
	Sensitivity ProportionEstimate `json:"sensitivity"`
	Specificity ProportionEstimate `json:"specificity"`
	PPV         ProportionEstimate `json:"ppv"`
	NPV         ProportionEstimate `json:"npv"`
	Accuracy    ProportionEstimate `json:"accuracy"`
	Prevalence  float64            `json:"prevalence"`
}

// DiagnosticResult is one evaluated experiment. Immutable after creation;
// this is the record the store persists.
type DiagnosticResult struct {
	ExperimentID    string             `json:"experiment_id"`
	TechniqueName   string             `json:"technique_name"`
	Sensitivity     ProportionEstimate `json:"sensitivity"`
	Specificity     ProportionEstimate `json:"specificity"`
	PPV             ProportionEstimate `json:"ppv"`
	NPV             ProportionEstimate `json:"npv"`
	Accuracy        ProportionEstimate `json:"accuracy"`
	Prevalence      float64            `json:"prevalence"`
	ConfusionMatrix ConfusionCounts    `json:"confusion_matrix"`
	ConfidenceLevel float64            `json:"confidence_level"`
	CreatedAt       time.Time          `json:"created_at"`
}
