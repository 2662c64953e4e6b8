package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"diagbench/internal/models"
)

// PostgresConfig holds connection details for the Postgres backend.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require"
}

// PostgresStore persists experiments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects and ensures the experiments table exists.
func OpenPostgres(config PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS experiments (
		id               TEXT PRIMARY KEY,
		technique_name   TEXT NOT NULL,
		sens_value       DOUBLE PRECISION NOT NULL,
		sens_lower       DOUBLE PRECISION NOT NULL,
		sens_upper       DOUBLE PRECISION NOT NULL,
		spec_value       DOUBLE PRECISION NOT NULL,
		spec_lower       DOUBLE PRECISION NOT NULL,
		spec_upper       DOUBLE PRECISION NOT NULL,
		ppv_value        DOUBLE PRECISION NOT NULL,
		ppv_lower        DOUBLE PRECISION NOT NULL,
		ppv_upper        DOUBLE PRECISION NOT NULL,
		npv_value        DOUBLE PRECISION NOT NULL,
		npv_lower        DOUBLE PRECISION NOT NULL,
		npv_upper        DOUBLE PRECISION NOT NULL,
		acc_value        DOUBLE PRECISION NOT NULL,
		acc_lower        DOUBLE PRECISION NOT NULL,
		acc_upper        DOUBLE PRECISION NOT NULL,
		prevalence       DOUBLE PRECISION NOT NULL,
		true_positives   INTEGER NOT NULL,
		true_negatives   INTEGER NOT NULL,
		false_positives  INTEGER NOT NULL,
		false_negatives  INTEGER NOT NULL,
		confidence_level DOUBLE PRECISION NOT NULL,
		created_at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_experiments_created_at ON experiments(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Save(result models.DiagnosticResult) error {
	placeholders := make([]string, 24)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO experiments (%s) VALUES (%s)",
		experimentColumns, strings.Join(placeholders, ", "))

	_, err := p.db.Exec(query, experimentArgs(result)...)
	return err
}

func (p *PostgresStore) Get(id string) (models.DiagnosticResult, error) {
	query := fmt.Sprintf("SELECT %s FROM experiments WHERE id = $1", experimentColumns)

	result, err := scanExperiment(p.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DiagnosticResult{}, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return result, err
}

func (p *PostgresStore) List(limit int) ([]models.DiagnosticResult, error) {
	query := fmt.Sprintf("SELECT %s FROM experiments ORDER BY created_at DESC LIMIT $1", experimentColumns)

	rows, err := p.db.Query(query, clampLimit(limit))
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

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
