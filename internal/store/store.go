package store

import (
	"fmt"
	"time"

	"diagbench/internal/models"
)

// MaxListResults caps experiment listings; the API never pages.
const MaxListResults = 1000

// ExperimentStore persists diagnostic results keyed by experiment ID.
type ExperimentStore interface {
	Save(result models.DiagnosticResult) error
	// Get returns models.ErrNotFound for an unknown identifier.
	Get(id string) (models.DiagnosticResult, error)
	// List returns results newest first. A limit <= 0 or above
	// MaxListResults falls back to MaxListResults.
	List(limit int) ([]models.DiagnosticResult, error)
	Close() error
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListResults {
		return MaxListResults
	}
	return limit
}

// Column order shared by the SQL backends.
const experimentColumns = `id, technique_name,
	sens_value, sens_lower, sens_upper,
	spec_value, spec_lower, spec_upper,
	ppv_value, ppv_lower, ppv_upper,
	npv_value, npv_lower, npv_upper,
	acc_value, acc_lower, acc_upper,
	prevalence,
	true_positives, true_negatives, false_positives, false_negatives,
	confidence_level, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Fixed-width nanoseconds keep TEXT timestamps lexicographically sortable;
// RFC3339Nano trims trailing zeros and would break ORDER BY created_at.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func experimentArgs(r models.DiagnosticResult) []interface{} {
	return []interface{}{
		r.ExperimentID, r.TechniqueName,
		r.Sensitivity.Value, r.Sensitivity.CILower, r.Sensitivity.CIUpper,
		r.Specificity.Value, r.Specificity.CILower, r.Specificity.CIUpper,
		r.PPV.Value, r.PPV.CILower, r.PPV.CIUpper,
		r.NPV.Value, r.NPV.CILower, r.NPV.CIUpper,
		r.Accuracy.Value, r.Accuracy.CILower, r.Accuracy.CIUpper,
		r.Prevalence,
		r.ConfusionMatrix.TruePositives, r.ConfusionMatrix.TrueNegatives,
		r.ConfusionMatrix.FalsePositives, r.ConfusionMatrix.FalseNegatives,
		r.ConfidenceLevel, r.CreatedAt.Format(timeLayout),
	}
}

func scanExperiment(row rowScanner) (models.DiagnosticResult, error) {
	var r models.DiagnosticResult
	var createdAt string

	err := row.Scan(
		&r.ExperimentID, &r.TechniqueName,
		&r.Sensitivity.Value, &r.Sensitivity.CILower, &r.Sensitivity.CIUpper,
		&r.Specificity.Value, &r.Specificity.CILower, &r.Specificity.CIUpper,
		&r.PPV.Value, &r.PPV.CILower, &r.PPV.CIUpper,
		&r.NPV.Value, &r.NPV.CILower, &r.NPV.CIUpper,
		&r.Accuracy.Value, &r.Accuracy.CILower, &r.Accuracy.CIUpper,
		&r.Prevalence,
		&r.ConfusionMatrix.TruePositives, &r.ConfusionMatrix.TrueNegatives,
		&r.ConfusionMatrix.FalsePositives, &r.ConfusionMatrix.FalseNegatives,
		&r.ConfidenceLevel, &createdAt,
	)
	if err != nil {
		return models.DiagnosticResult{}, err
	}

	r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.DiagnosticResult{}, fmt.Errorf("parse created_at: %w", err)
	}
	return r, nil
}
