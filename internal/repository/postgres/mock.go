package postgres

import (
	"context"
	"sync"

	"github.com/citysky/weather/internal/domain"
)

const mockCapacity = 100

// MockRepository implements domain.LookupRepository in memory for
// testing/demo mode. It keeps the newest mockCapacity records.
type MockRepository struct {
	mu      sync.Mutex
	records []domain.LookupRecord
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SaveLookup appends to the in-memory log
func (r *MockRepository) SaveLookup(ctx context.Context, rec domain.LookupRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	if len(r.records) > mockCapacity {
		r.records = r.records[len(r.records)-mockCapacity:]
	}
	return nil
}

// RecentLookups returns up to limit records, newest first
func (r *MockRepository) RecentLookups(ctx context.Context, limit int) ([]domain.LookupRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]domain.LookupRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
