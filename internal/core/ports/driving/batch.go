package driving

import (
	"context"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
)

// BatchRunner discovers input documents, fans them out across a bounded
// worker pool and fans outcomes into the store.
type BatchRunner interface {
	// Run processes the inputs (explicit files and/or directories scanned
	// recursively) into outputDir. workers <= 0 selects the default pool
	// size (available parallelism - 1). The returned Summary is computed
	// only after all workers have joined.
	Run(ctx context.Context, inputs []string, outputDir string, workers int) (*domain.Summary, error)

	// Status returns a point-in-time snapshot for progress display.
	Status() domain.BatchStatus
}

// Watcher translates documents as they appear in an intake directory.
type Watcher interface {
	Watch(ctx context.Context, dir, outputDir string) error
}
