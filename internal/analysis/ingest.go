package analysis

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"diagbench/internal/models"
)

// IngestService turns tabular uploads into experiment requests, one per row.
type IngestService struct{}

func NewIngestService() *IngestService {
	return &IngestService{}
}

var requiredColumns = []string{
	"technique_name",
	"true_positives",
	"true_negatives",
	"false_positives",
	"false_negatives",
}

// ParsedRow is one successfully parsed data row. Row numbering is 1-based
// over data rows, excluding the header.
type ParsedRow struct {
	Row     int
	Request models.ExperimentRequest
}

// ParseOutcome separates parseable rows from skipped ones. Row-level
// failures never abort the batch.
type ParseOutcome struct {
	Rows    []ParsedRow
	Skipped []models.SkippedRow
}

// ParseUpload reads a CSV or TSV upload. File-level problems (unknown
// extension, unreadable table, missing required columns) are errors;
// everything row-level becomes a skip entry.
func (s *IngestService) ParseUpload(filename string, r io.Reader) (ParseOutcome, error) {
	comma, err := delimiterFor(filename)
	if err != nil {
		return ParseOutcome{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return ParseOutcome{}, fmt.Errorf("read upload: %w", err)
	}

	headers, rows, err := readTable(data, comma)
	if err != nil {
		return ParseOutcome{}, err
	}

	// Some exports use semicolons with a .csv extension. Retry once if the
	// comma parse produced a single unsplit header.
	if comma == ',' && len(headers) == 1 && strings.Contains(headers[0], ";") {
		headers, rows, err = readTable(data, ';')
		if err != nil {
			return ParseOutcome{}, err
		}
	}

	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return ParseOutcome{}, fmt.Errorf("%w: %s", models.ErrMissingColumns, strings.Join(missing, ", "))
	}

	outcome := ParseOutcome{}
	for i, record := range rows {
		rowNum := i + 1
		req, err := parseRow(record, columns)
		if err != nil {
			outcome.Skipped = append(outcome.Skipped, models.SkippedRow{Row: rowNum, Reason: err.Error()})
			continue
		}
		outcome.Rows = append(outcome.Rows, ParsedRow{Row: rowNum, Request: req})
	}
	return outcome, nil
}

func delimiterFor(filename string) (rune, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ',', nil
	case ".tsv", ".txt":
		return '\t', nil
	default:
		return 0, fmt.Errorf("%w: %q (expected .csv, .tsv or .txt)", models.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func readTable(data []byte, comma rune) ([]string, [][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1 // Allow variable fields
	reader.LazyQuotes = true    // Allow bare quotes in non-quoted fields
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read header row", models.ErrInvalidInput)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows := [][]string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed line; keep going, later rows are independent.
			continue
		}
		rows = append(rows, record)
	}
	return headers, rows, nil
}

func parseRow(record []string, columns map[string]int) (models.ExperimentRequest, error) {
	field := func(name string) (string, error) {
		idx := columns[name]
		if idx >= len(record) {
			return "", fmt.Errorf("row has no %s field", name)
		}
		return strings.TrimSpace(record[idx]), nil
	}

	count := func(name string) (int, error) {
		raw, err := field(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s is not an integer: %q", name, raw)
		}
		if v < 0 {
			return 0, fmt.Errorf("%s must be non-negative, got %d", name, v)
		}
		return v, nil
	}

	var req models.ExperimentRequest
	var err error

	if req.TechniqueName, err = field("technique_name"); err != nil {
		return models.ExperimentRequest{}, err
	}
	if req.TechniqueName == "" {
		return models.ExperimentRequest{}, fmt.Errorf("technique_name is empty")
	}
	if req.TruePositives, err = count("true_positives"); err != nil {
		return models.ExperimentRequest{}, err
	}
	if req.TrueNegatives, err = count("true_negatives"); err != nil {
		return models.ExperimentRequest{}, err
	}
	if req.FalsePositives, err = count("false_positives"); err != nil {
		return models.ExperimentRequest{}, err
	}
	if req.FalseNegatives, err = count("false_negatives"); err != nil {
		return models.ExperimentRequest{}, err
	}

	// confidence_level column is optional, as is a value in it.
	if idx, ok := columns["confidence_level"]; ok && idx < len(record) {
		raw := strings.TrimSpace(record[idx])
		if raw != "" {
			level, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return models.ExperimentRequest{}, fmt.Errorf("confidence_level is not a number: %q", raw)
			}
			req.ConfidenceLevel = level
		}
	}

	return req, nil
}
