package store

import (
	"fmt"
	"sync"

	"diagbench/internal/models"
)

// MemoryStore keeps results in process memory. Useful for tests and for
// running without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]models.DiagnosticResult
	order   []string // insertion order of IDs, oldest first
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]models.DiagnosticResult),
	}
}

func (m *MemoryStore) Save(result models.DiagnosticResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.results[result.ExperimentID]; !exists {
		m.order = append(m.order, result.ExperimentID)
	}
	m.results[result.ExperimentID] = result
	return nil
}

func (m *MemoryStore) Get(id string) (models.DiagnosticResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, ok := m.results[id]
	if !ok {
		return models.DiagnosticResult{}, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return result, nil
}

func (m *MemoryStore) List(limit int) ([]models.DiagnosticResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit = clampLimit(limit)
	results := make([]models.DiagnosticResult, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, m.results[m.order[i]])
	}
	return results, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
