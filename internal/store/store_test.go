package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagbench/internal/models"
)

func sampleResult(id, technique string, createdAt time.Time) models.DiagnosticResult {
	return models.DiagnosticResult{
		ExperimentID:  id,
		TechniqueName: technique,
		Sensitivity:   models.ProportionEstimate{Value: 0.9, CILower: 0.7863934216, CIUpper: 0.9565043296},
		Specificity:   models.ProportionEstimate{Value: 0.95, CILower: 0.8340791674, CIUpper: 0.9866992757},
		PPV:           models.ProportionEstimate{Value: 45.0 / 47.0, CILower: 0.8561462, CIUpper: 0.9891035},
		NPV:           models.ProportionEstimate{Value: 38.0 / 43.0, CILower: 0.7533378, CIUpper: 0.9483461},
		Accuracy:      models.ProportionEstimate{Value: 83.0 / 90.0, CILower: 0.8456785, CIUpper: 0.9594635},
		Prevalence:    50.0 / 90.0,
		ConfusionMatrix: models.ConfusionCounts{
			TruePositives:  45,
			TrueNegatives:  38,
			FalsePositives: 2,
			FalseNegatives: 5,
		},
		ConfidenceLevel: 0.95,
		CreatedAt:       createdAt,
	}
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagbench-test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Both backends must satisfy the same contract, so the suite runs against
// each of them.
func storeBackends(t *testing.T) map[string]ExperimentStore {
	return map[string]ExperimentStore{
		"memory": NewMemoryStore(),
		"sqlite": newTestSQLiteStore(t),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleResult("exp-1", "qPCR", time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC))
			require.NoError(t, s.Save(want))

			got, err := s.Get("exp-1")
			require.NoError(t, err)

			// Numeric fields must survive persistence bit for bit.
			assert.Equal(t, want.Sensitivity, got.Sensitivity)
			assert.Equal(t, want.Specificity, got.Specificity)
			assert.Equal(t, want.PPV, got.PPV)
			assert.Equal(t, want.NPV, got.NPV)
			assert.Equal(t, want.Accuracy, got.Accuracy)
			assert.Equal(t, want.Prevalence, got.Prevalence)
			assert.Equal(t, want.ConfusionMatrix, got.ConfusionMatrix)
			assert.Equal(t, want.ConfidenceLevel, got.ConfidenceLevel)
			assert.Equal(t, want.TechniqueName, got.TechniqueName)
			assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at drifted: %v vs %v", want.CreatedAt, got.CreatedAt)
		})
	}
}

func TestStoreGetUnknownID(t *testing.T) {
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("no-such-experiment")
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrNotFound))
		})
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				id := fmt.Sprintf("exp-%d", i)
				require.NoError(t, s.Save(sampleResult(id, "LAMP", base.Add(time.Duration(i)*time.Minute))))
			}

			results, err := s.List(0)
			require.NoError(t, err)
			require.Len(t, results, 5)
			assert.Equal(t, "exp-4", results[0].ExperimentID)
			assert.Equal(t, "exp-0", results[4].ExperimentID)

			limited, err := s.List(2)
			require.NoError(t, err)
			require.Len(t, limited, 2)
			assert.Equal(t, "exp-4", limited[0].ExperimentID)
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, MaxListResults, clampLimit(0))
	assert.Equal(t, MaxListResults, clampLimit(-3))
	assert.Equal(t, MaxListResults, clampLimit(MaxListResults+1))
	assert.Equal(t, 10, clampLimit(10))
}
