package models

// SkippedRow records one ingestion row that failed validation or parsing.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// UploadDataResponse is returned by POST /api/upload-data.
type UploadDataResponse struct {
	Message   string             `json:"message"`
	Processed int                `json:"processed"`
	Skipped   int                `json:"skipped"`
	SkipRows  []SkippedRow       `json:"skip_reasons,omitempty"`
	Results   []DiagnosticResult `json:"results"`
}

// BestMetric names the technique holding the maximum point value for one
// metric across a comparison.
type BestMetric struct {
	Technique    string  `json:"technique"`
	ExperimentID string  `json:"experiment_id"`
	Value        float64 `json:"value"`
}

// ComparisonSummary reports the winning technique per metric. Ties keep the
// first technique encountered.
type ComparisonSummary struct {
	BestSensitivity BestMetric `json:"best_sensitivity"`
	BestSpecificity BestMetric `json:"best_specificity"`
	BestAccuracy    BestMetric `json:"best_accuracy"`
	BestPPV         BestMetric `json:"best_ppv"`
	BestNPV         BestMetric `json:"best_npv"`
}

// CompareResponse is returned by POST /api/compare.
type CompareResponse struct {
	Techniques []DiagnosticResult `json:"techniques"`
	Summary    ComparisonSummary  `json:"summary"`
	Unresolved []string           `json:"unresolved_ids,omitempty"`
}
