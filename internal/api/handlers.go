package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"diagbench/internal/analysis"
	"diagbench/internal/models"
	"diagbench/internal/service"
	"diagbench/internal/store"
)

const MaxFileSize = 20 * 1024 * 1024 // 20MB

type Handler struct {
	Diagnostic *service.DiagnosticCalculator
	Agreement  *service.AgreementCalculator
	Ingest     *analysis.IngestService
	Store      store.ExperimentStore

	validate *validator.Validate
}

func NewHandler(diagnostic *service.DiagnosticCalculator, agreement *service.AgreementCalculator, ingest *analysis.IngestService, st store.ExperimentStore) *Handler {
	return &Handler{
		Diagnostic: diagnostic,
		Agreement:  agreement,
		Ingest:     ingest,
		Store:      st,
		validate:   validator.New(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.Root)
		r.Post("/experiments", h.CreateExperiment)
		r.Get("/experiments", h.ListExperiments)
		r.Get("/experiments/{experimentID}", h.GetExperiment)
		r.Post("/kappa", h.ComputeKappa)
		r.Post("/upload-data", h.UploadData)
		r.Post("/compare", h.CompareTechniques)
	})
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"message": "Diagnostic accuracy statistics API"})
}

// ============================================================================
// Experiments
// ============================================================================

func (h *Handler) CreateExperiment(w http.ResponseWriter, r *http.Request) {
	var req models.ExperimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid experiment data: %v", err), http.StatusUnprocessableEntity)
		return
	}

	result, err := h.runExperiment(req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, result)
}

// runExperiment estimates, assigns identity and persists. Shared by the JSON
// endpoint and the upload path.
func (h *Handler) runExperiment(req models.ExperimentRequest) (models.DiagnosticResult, error) {
	metrics, err := h.Diagnostic.Estimate(req.Counts(), req.ConfidenceLevel)
	if err != nil {
		return models.DiagnosticResult{}, err
	}

	level := req.ConfidenceLevel
	if level == 0 {
		level = service.DefaultConfidenceLevel
	}

	result := models.DiagnosticResult{
		ExperimentID:    uuid.NewString(),
		TechniqueName:   req.TechniqueName,
		Sensitivity:     metrics.Sensitivity,
		Specificity:     metrics.Specificity,
		PPV:             metrics.PPV,
		NPV:             metrics.NPV,
		Accuracy:        metrics.Accuracy,
		Prevalence:      metrics.Prevalence,
		ConfusionMatrix: req.Counts(),
		ConfidenceLevel: level,
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.Store.Save(result); err != nil {
		return models.DiagnosticResult{}, fmt.Errorf("save experiment: %w", err)
	}
	return result, nil
}

func (h *Handler) ListExperiments(w http.ResponseWriter, r *http.Request) {
	results, err := h.Store.List(store.MaxListResults)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, results)
}

func (h *Handler) GetExperiment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "experimentID")

	result, err := h.Store.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, result)
}

// ============================================================================
// Kappa
// ============================================================================

func (h *Handler) ComputeKappa(w http.ResponseWriter, r *http.Request) {
	var req models.KappaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid kappa data: %v", err), http.StatusBadRequest)
		return
	}

	rater1, err := models.NormalizeLabels(req.Rater1Data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	rater2, err := models.NormalizeLabels(req.Rater2Data)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.Agreement.Estimate(rater1, rater2, req.ConfidenceLevel)
	if err != nil {
		h.writeError(w, err)
		return
	}
	result.Description = req.Description

	writeJSON(w, result)
}

// ============================================================================
// Upload
// ============================================================================

func (h *Handler) UploadData(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxFileSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	outcome, err := h.Ingest.ParseUpload(header.Filename, file)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := models.UploadDataResponse{
		SkipRows: outcome.Skipped,
		Results:  []models.DiagnosticResult{},
	}
	for _, row := range outcome.Rows {
		result, err := h.runExperiment(row.Request)
		if err != nil {
			// One bad row never aborts the batch.
			log.Printf("Skipping upload row %d: %v", row.Row, err)
			resp.SkipRows = append(resp.SkipRows, models.SkippedRow{Row: row.Row, Reason: err.Error()})
			continue
		}
		resp.Results = append(resp.Results, result)
	}

	resp.Processed = len(resp.Results)
	resp.Skipped = len(resp.SkipRows)
	resp.Message = fmt.Sprintf("Processed %d experiments from '%s'", resp.Processed, header.Filename)

	writeJSON(w, resp)
}

// ============================================================================
// Comparison
// ============================================================================

func (h *Handler) CompareTechniques(w http.ResponseWriter, r *http.Request) {
	var req models.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid comparison request: %v", err), http.StatusBadRequest)
		return
	}

	resp := models.CompareResponse{Techniques: []models.DiagnosticResult{}}
	for _, id := range req.ExperimentIDs {
		result, err := h.Store.Get(id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				resp.Unresolved = append(resp.Unresolved, id)
				continue
			}
			h.writeError(w, err)
			return
		}
		resp.Techniques = append(resp.Techniques, result)
	}

	if len(resp.Techniques) == 0 {
		http.Error(w, "None of the requested experiment IDs exist", http.StatusBadRequest)
		return
	}

	resp.Summary = summarize(resp.Techniques)
	writeJSON(w, resp)
}

// summarize finds the best technique per metric. Strict greater-than only, so
// the first technique encountered wins ties.
func summarize(results []models.DiagnosticResult) models.ComparisonSummary {
	best := func(value func(models.DiagnosticResult) float64) models.BestMetric {
		top := models.BestMetric{
			Technique:    results[0].TechniqueName,
			ExperimentID: results[0].ExperimentID,
			Value:        value(results[0]),
		}
		for _, r := range results[1:] {
			if v := value(r); v > top.Value {
				top = models.BestMetric{Technique: r.TechniqueName, ExperimentID: r.ExperimentID, Value: v}
			}
		}
		return top
	}

	return models.ComparisonSummary{
		BestSensitivity: best(func(r models.DiagnosticResult) float64 { return r.Sensitivity.Value }),
		BestSpecificity: best(func(r models.DiagnosticResult) float64 { return r.Specificity.Value }),
		BestAccuracy:    best(func(r models.DiagnosticResult) float64 { return r.Accuracy.Value }),
		BestPPV:         best(func(r models.DiagnosticResult) float64 { return r.PPV.Value }),
		BestNPV:         best(func(r models.DiagnosticResult) float64 { return r.NPV.Value }),
	}
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Unknown errors get a
// generic message so internals never leak.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrLengthMismatch),
		errors.Is(err, models.ErrDegenerateAgreement),
		errors.Is(err, models.ErrUnsupportedFormat),
		errors.Is(err, models.ErrMissingColumns):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Internal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
