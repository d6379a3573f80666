package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driving"
)

// Ensure WatchService implements the interface.
var _ driving.Watcher = (*WatchService)(nil)

// settleDelay is how long a file must be quiet after its last write event
// before it is translated, so half-copied files are not picked up.
const settleDelay = 200 * time.Millisecond

// WatchService translates source documents as they land in an intake
// directory. Each file is processed by the same single-document path as
// the batch runner and recorded in the same store.
type WatchService struct {
	translator driving.Translator
	openStore  driven.OutcomeStoreOpener
	log        *zap.Logger

	// limiter paces translation dispatch so a bulk drop into the intake
	// directory does not start an unbounded number of runs at once.
	limiter *rate.Limiter
}

// NewWatchService creates a watcher.
func NewWatchService(translator driving.Translator, openStore driven.OutcomeStoreOpener, log *zap.Logger) *WatchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WatchService{
		translator: translator,
		openStore:  openStore,
		log:        log,
		limiter:    rate.NewLimiter(rate.Limit(20), 5),
	}
}

// Watch blocks until the context is cancelled, translating each new source
// document that appears in dir.
func (w *WatchService) Watch(ctx context.Context, dir, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	store, err := w.openStore(outputDir)
	if err != nil {
		return fmt.Errorf("opening outcome store: %w", err)
	}
	defer store.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.log.Info("watching for source documents",
		zap.String("dir", dir), zap.String("output_dir", outputDir))

	// pending tracks files with a settle timer already armed; shutdown
	// stops timer callbacks that fire after Stop from dispatching work
	// once Watch is returning.
	var (
		mu       sync.Mutex
		pending  = make(map[string]*time.Timer)
		shutdown bool
	)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			shutdown = true
			for _, t := range pending {
				t.Stop()
			}
			mu.Unlock()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), SourceExtension) {
				continue
			}

			path := event.Name
			mu.Lock()
			if t, armed := pending[path]; armed {
				t.Reset(settleDelay)
				mu.Unlock()
				continue
			}
			pending[path] = time.AfterFunc(settleDelay, func() {
				mu.Lock()
				delete(pending, path)
				if shutdown {
					mu.Unlock()
					return
				}
				wg.Add(1)
				mu.Unlock()

				go func() {
					defer wg.Done()
					w.processOne(ctx, store, path, outputDir)
				}()
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// processOne translates a single settled file and records its outcome.
func (w *WatchService) processOne(ctx context.Context, store driven.OutcomeStore, path, outputDir string) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	rec := processDocument(ctx, w.translator, path, outputDir, "watcher")

	if err := store.Record(context.Background(), rec); err != nil {
		w.log.Error("outcome not recorded", zap.String("file", path), zap.Error(err))
		return
	}
	w.log.Info("document processed",
		zap.String("file", rec.Filename), zap.String("status", string(rec.Status)))
}
