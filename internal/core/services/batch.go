package services

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driving"
)

// Ensure BatchService implements the interface.
var _ driving.BatchRunner = (*BatchService)(nil)

// BatchService fans pipeline runs out across a bounded worker pool and
// fans the outcomes in to the store through a single recorder goroutine.
// One document's failure — including a panic inside a processor — never
// aborts sibling work.
type BatchService struct {
	translator driving.Translator
	openStore  driven.OutcomeStoreOpener
	log        *zap.Logger

	mu     sync.RWMutex
	status domain.BatchStatus
}

// NewBatchService creates a batch runner.
func NewBatchService(translator driving.Translator, openStore driven.OutcomeStoreOpener, log *zap.Logger) *BatchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchService{
		translator: translator,
		openStore:  openStore,
		log:        log,
	}
}

// DefaultWorkers is the worker count used when none is configured:
// available parallelism minus one, and never below one.
func DefaultWorkers() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// Run processes every discovered input into outputDir. The store is opened
// at job start and closed at job end; the summary is computed only after
// all workers have joined. Cancellation is cooperative: queued documents
// are dropped, in-flight documents complete with a full record.
func (b *BatchService) Run(ctx context.Context, inputs []string, outputDir string, workers int) (*domain.Summary, error) {
	files, err := Discover(inputs)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	store, err := b.openStore(outputDir)
	if err != nil {
		return nil, fmt.Errorf("opening outcome store: %w", err)
	}
	defer store.Close()

	if workers <= 0 {
		workers = DefaultWorkers()
	}

	runID := uuid.NewString()
	b.log.Info("batch started",
		zap.String("run_id", runID),
		zap.Int("documents", len(files)),
		zap.Int("workers", workers),
		zap.String("output_dir", outputDir))

	b.setStatus(domain.BatchStatus{Running: true, Total: len(files)})
	defer b.update(func(st *domain.BatchStatus) { st.Running = false })

	jobs := make(chan string)
	records := make(chan domain.OutcomeRecord)

	// Single recorder goroutine: the store is the only shared mutable
	// resource, so all writes funnel through here. Completed outcomes are
	// recorded even during cancellation; a record is whole or absent,
	// never partial.
	recorderDone := make(chan struct{})
	go func() {
		defer close(recorderDone)
		for rec := range records {
			if err := store.Record(context.Background(), rec); err != nil {
				b.log.Error("outcome not recorded",
					zap.String("file", rec.Filepath), zap.Error(err))
				b.update(func(st *domain.BatchStatus) { st.Unrecorded++ })
			}
		}
	}()

	// Feeder: stops handing out work on cancellation.
	go func() {
		defer close(jobs)
		for _, f := range files {
			select {
			case jobs <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		workerID := fmt.Sprintf("worker-%d", i+1)
		g.Go(func() error {
			for path := range jobs {
				rec := processDocument(ctx, b.translator, path, outputDir, workerID)
				b.update(func(st *domain.BatchStatus) {
					st.Processed++
					if rec.Status == domain.StatusSuccess {
						st.Succeeded++
					} else {
						st.Failed++
					}
				})
				records <- rec
			}
			return nil
		})
	}

	// Barrier: the summary exists only after every worker has joined and
	// the recorder has drained.
	_ = g.Wait()
	close(records)
	<-recorderDone

	st := b.Status()
	summary := &domain.Summary{
		Succeeded:  st.Succeeded,
		Failed:     st.Failed,
		Unrecorded: st.Unrecorded,
	}
	if byCat, err := store.FailuresByCategory(context.Background()); err != nil {
		b.log.Warn("failure breakdown unavailable", zap.Error(err))
	} else {
		summary.ByCategory = byCat
	}

	b.log.Info("batch finished",
		zap.String("run_id", runID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("unrecorded", summary.Unrecorded))

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// Status returns a copy of the current batch status.
func (b *BatchService) Status() domain.BatchStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

func (b *BatchService) setStatus(st domain.BatchStatus) {
	b.mu.Lock()
	b.status = st
	b.mu.Unlock()
}

func (b *BatchService) update(fn func(*domain.BatchStatus)) {
	b.mu.Lock()
	fn(&b.status)
	b.mu.Unlock()
}
