package service

import (
	"diagbench/internal/models"
)

// DiagnosticCalculator derives diagnostic-accuracy statistics from a 2x2
// confusion matrix. It is stateless and safe for concurrent use.
type DiagnosticCalculator struct{}

// NewDiagnosticCalculator creates a new calculator
func NewDiagnosticCalculator() *DiagnosticCalculator {
	return &DiagnosticCalculator{}
}

// Estimate computes the five proportions with Wilson score intervals plus
// prevalence. Point estimates use a 0 fallback on empty denominators; only a
// zero total is an error.
func (dc *DiagnosticCalculator) Estimate(counts models.ConfusionCounts, confidenceLevel float64) (models.DiagnosticMetrics, error) {
	level, err := normalizeConfidence(confidenceLevel)
	if err != nil {
		return models.DiagnosticMetrics{}, err
	}
	if err := counts.Validate(); err != nil {
		return models.DiagnosticMetrics{}, err
	}

	tp := counts.TruePositives
	tn := counts.TrueNegatives
	fp := counts.FalsePositives
	fn := counts.FalseNegatives
	total := counts.Total()

	z := zQuantile(level)

	metrics := models.DiagnosticMetrics{
		Sensitivity: wilsonInterval(tp, tp+fn, z),
		Specificity: wilsonInterval(tn, tn+fp, z),
		PPV:         wilsonInterval(tp, tp+fp, z),
		NPV:         wilsonInterval(tn, tn+fn, z),
		Accuracy:    wilsonInterval(tp+tn, total, z),
		Prevalence:  safeRatio(tp+fn, total),
	}

	return metrics, nil
}
