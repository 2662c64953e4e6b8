package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"diagbench/internal/models"
)

// SQLiteStore persists experiments in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the experiment database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS experiments (
		id               TEXT PRIMARY KEY,
		technique_name   TEXT NOT NULL,
		sens_value       REAL NOT NULL,
		sens_lower       REAL NOT NULL,
		sens_upper       REAL NOT NULL,
		spec_value       REAL NOT NULL,
		spec_lower       REAL NOT NULL,
		spec_upper       REAL NOT NULL,
		ppv_value        REAL NOT NULL,
		ppv_lower        REAL NOT NULL,
		ppv_upper        REAL NOT NULL,
		npv_value        REAL NOT NULL,
		npv_lower        REAL NOT NULL,
		npv_upper        REAL NOT NULL,
		acc_value        REAL NOT NULL,
		acc_lower        REAL NOT NULL,
		acc_upper        REAL NOT NULL,
		prevalence       REAL NOT NULL,
		true_positives   INTEGER NOT NULL,
		true_negatives   INTEGER NOT NULL,
		false_positives  INTEGER NOT NULL,
		false_negatives  INTEGER NOT NULL,
		confidence_level REAL NOT NULL,
		created_at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_experiments_created_at ON experiments(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(result models.DiagnosticResult) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", 24), ", ")
	query := fmt.Sprintf("INSERT INTO experiments (%s) VALUES (%s)", experimentColumns, placeholders)

	_, err := s.db.Exec(query, experimentArgs(result)...)
	return err
}

func (s *SQLiteStore) Get(id string) (models.DiagnosticResult, error) {
	query := fmt.Sprintf("SELECT %s FROM experiments WHERE id = ?", experimentColumns)

	result, err := scanExperiment(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DiagnosticResult{}, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return result, err
}

func (s *SQLiteStore) List(limit int) ([]models.DiagnosticResult, error) {
	query := fmt.Sprintf("SELECT %s FROM experiments ORDER BY created_at DESC LIMIT ?", experimentColumns)

	rows, err := s.db.Query(query, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.DiagnosticResult{}
	for rows.Next() {
		result, err := scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
