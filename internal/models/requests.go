package models

// ExperimentRequest is the payload for POST /api/experiments.
// ConfidenceLevel of 0 means "use the default".
type ExperimentRequest struct {
	TechniqueName   string  `json:"technique_name" validate:"required"`
	TruePositives   int     `json:"true_positives" validate:"gte=0"`
	TrueNegatives   int     `json:"true_negatives" validate:"gte=0"`
	FalsePositives  int     `json:"false_positives" validate:"gte=0"`
	FalseNegatives  int     `json:"false_negatives" validate:"gte=0"`
	ConfidenceLevel float64 `json:"confidence_level" validate:"omitempty,gte=0.5,lte=0.99"`
}

// Counts assembles the confusion matrix from the request.
func (r ExperimentRequest) Counts() ConfusionCounts {
	return ConfusionCounts{
		TruePositives:  r.TruePositives,
		TrueNegatives:  r.TrueNegatives,
		FalsePositives: r.FalsePositives,
		FalseNegatives: r.FalseNegatives,
	}
}

// KappaRequest is the payload for POST /api/kappa. Rating elements may be
// integers or string codes, so decoding stays loose until NormalizeLabels.
type KappaRequest struct {
	Rater1Data      []interface{} `json:"rater1_data" validate:"required,min=1"`
	Rater2Data      []interface{} `json:"rater2_data" validate:"required,min=1"`
	ConfidenceLevel float64       `json:"confidence_level" validate:"omitempty,gte=0.5,lte=0.99"`
	Description     string        `json:"description"`
}

// CompareRequest is the payload for POST /api/compare.
type CompareRequest struct {
	ExperimentIDs []string `json:"experiment_ids" validate:"required,min=1"`
}
