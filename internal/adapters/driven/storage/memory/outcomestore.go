// Package memory provides an in-memory OutcomeStore used in tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
)

// Ensure OutcomeStore implements the interface.
var _ driven.OutcomeStore = (*OutcomeStore)(nil)

// OutcomeStore keeps records in a slice behind a mutex.
type OutcomeStore struct {
	mu      sync.Mutex
	records []domain.OutcomeRecord
	closed  bool

	// FailWrites makes every Record call fail, for testing the
	// unrecorded-outcome path.
	FailWrites bool
}

// NewOutcomeStore creates an empty store.
func NewOutcomeStore() *OutcomeStore {
	return &OutcomeStore{}
}

// Record appends one record.
func (s *OutcomeStore) Record(_ context.Context, rec domain.OutcomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return &domain.StoreError{Op: "record", Err: errors.New("writes disabled")}
	}
	s.records = append(s.records, rec)
	return nil
}

// Summary returns per-status counts.
func (s *OutcomeStore) Summary(_ context.Context) (domain.StoreSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var summary domain.StoreSummary
	for _, rec := range s.records {
		summary.Total++
		switch rec.Status {
		case domain.StatusSuccess:
			summary.Succeeded++
		case domain.StatusFailure:
			summary.Failed++
		}
	}
	return summary, nil
}

// FailuresByCategory returns failure counts keyed by error category.
func (s *OutcomeStore) FailuresByCategory(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int)
	for _, rec := range s.records {
		if rec.Status != domain.StatusFailure {
			continue
		}
		category := "Unknown"
		if rec.ErrorCategory != nil {
			category = *rec.ErrorCategory
		}
		out[category]++
	}
	return out, nil
}

// List returns the most recent records, newest first.
func (s *OutcomeStore) List(_ context.Context, limit int) ([]domain.OutcomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.OutcomeRecord, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProcessedAt.After(out[j].ProcessedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close marks the store closed.
func (s *OutcomeStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Records returns a snapshot of everything recorded so far.
func (s *OutcomeStore) Records() []domain.OutcomeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.OutcomeRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Closed reports whether Close has been called.
func (s *OutcomeStore) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
