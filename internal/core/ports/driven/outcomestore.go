package driven

import (
	"context"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
)

// OutcomeStore is the durable table of per-document results. It is the sole
// mutable shared resource in a batch; implementations must tolerate
// concurrent Record calls (the batch service additionally serialises writes
// through a single recorder goroutine).
type OutcomeStore interface {
	// Record inserts exactly one row for one document. A failed write is
	// reported as a *domain.StoreError; the caller logs it and counts the
	// outcome as unrecorded.
	Record(ctx context.Context, rec domain.OutcomeRecord) error

	// Summary returns per-status row counts.
	Summary(ctx context.Context) (domain.StoreSummary, error)

	// FailuresByCategory returns failure row counts keyed by
	// error_category.
	FailuresByCategory(ctx context.Context) (map[string]int, error)

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]domain.OutcomeRecord, error)

	Close() error
}

// OutcomeStoreOpener opens (creating or appending) the outcome store rooted
// at an output directory. The batch service opens the store at job start
// and closes it at job end.
type OutcomeStoreOpener func(outputDir string) (OutcomeStore, error)
