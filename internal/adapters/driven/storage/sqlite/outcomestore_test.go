package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
)

func newRecord(status domain.Status, processedAt time.Time) domain.OutcomeRecord {
	rec := domain.OutcomeRecord{
		ID:              uuid.NewString(),
		Filepath:        "/in/house.h2k",
		Filename:        "house.h2k",
		Directory:       "/in",
		Status:          status,
		StartTime:       processedAt.Add(-time.Second),
		EndTime:         processedAt,
		DurationSeconds: 1,
		ProcessedAt:     processedAt,
		WorkerID:        "worker-1",
	}
	if status == domain.StatusSuccess {
		out := "/out/house.xml"
		rec.OutputPath = &out
		rec.Warnings = []domain.Warning{{
			Code:    domain.WarnNoCoolingSpecified,
			Field:   "House/HeatingCooling/Type2/AirConditioning",
			Message: "source document specifies no cooling equipment",
		}}
	} else {
		msg := "Enclosure: Validation_NegativeRValue: wall 1 has negative insulation value -5"
		errType := "Validation_NegativeRValue"
		category := "Enclosure"
		rec.ErrorMessage = &msg
		rec.ErrorType = &errType
		rec.ErrorCategory = &category
	}
	return rec
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewOutcomeStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	success := newRecord(domain.StatusSuccess, now)
	failure := newRecord(domain.StatusFailure, now.Add(time.Second))
	require.NoError(t, store.Record(ctx, success))
	require.NoError(t, store.Record(ctx, failure))

	records, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, failure.ID, records[0].ID)
	assert.Equal(t, success.ID, records[1].ID)

	got := records[1]
	assert.Equal(t, success.Filename, got.Filename)
	assert.Equal(t, domain.StatusSuccess, got.Status)
	require.NotNil(t, got.OutputPath)
	assert.Equal(t, *success.OutputPath, *got.OutputPath)
	assert.Nil(t, got.ErrorType)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, domain.WarnNoCoolingSpecified, got.Warnings[0].Code)
	assert.True(t, got.ProcessedAt.Equal(success.ProcessedAt))

	gotFail := records[0]
	require.NotNil(t, gotFail.ErrorType)
	assert.Equal(t, "Validation_NegativeRValue", *gotFail.ErrorType)
	require.NotNil(t, gotFail.ErrorCategory)
	assert.Equal(t, "Enclosure", *gotFail.ErrorCategory)
	assert.Nil(t, gotFail.OutputPath)
	assert.Empty(t, gotFail.Warnings)
}

func TestStoreSummaryAndBreakdown(t *testing.T) {
	store, err := NewOutcomeStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, newRecord(domain.StatusSuccess, now)))
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, store.Record(ctx, newRecord(domain.StatusFailure, now)))
	}

	summary, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StoreSummary{Total: 5, Succeeded: 3, Failed: 2}, summary)

	byCat, err := store.FailuresByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Enclosure": 2}, byCat)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewOutcomeStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), newRecord(domain.StatusSuccess, time.Now().UTC())))
	require.NoError(t, store.Close())

	reopened, err := NewOutcomeStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	summary, err := reopened.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, filepath.Join(dir, DBFileName), reopened.Path())
}

func TestStoreRejectsDuplicateID(t *testing.T) {
	store, err := NewOutcomeStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	rec := newRecord(domain.StatusSuccess, time.Now().UTC())
	require.NoError(t, store.Record(context.Background(), rec))

	err = store.Record(context.Background(), rec)
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
}

func TestStoreRetriesLockedWrites(t *testing.T) {
	// A zero busy timeout makes the driver surface SQLITE_BUSY immediately,
	// so the write has to survive on the retry loop alone.
	store, err := newOutcomeStore(t.TempDir(), 0)
	require.NoError(t, err)
	defer store.Close()

	locker, err := sql.Open("sqlite", store.Path()+"?_pragma=busy_timeout(0)")
	require.NoError(t, err)
	defer locker.Close()

	// Take the write lock on a second connection and hold it across the
	// store's first attempts.
	tx, err := locker.Begin()
	require.NoError(t, err)
	_, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (999)`)
	require.NoError(t, err)

	released := make(chan struct{})
	go func() {
		defer close(released)
		time.Sleep(120 * time.Millisecond)
		_ = tx.Rollback()
	}()

	err = store.Record(context.Background(), newRecord(domain.StatusSuccess, time.Now().UTC()))
	require.NoError(t, err, "write should succeed once the lock is released")
	<-released

	summary, err := store.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
}

func TestStoreLockedWritesGiveUpEventually(t *testing.T) {
	store, err := newOutcomeStore(t.TempDir(), 0)
	require.NoError(t, err)
	defer store.Close()

	locker, err := sql.Open("sqlite", store.Path()+"?_pragma=busy_timeout(0)")
	require.NoError(t, err)
	defer locker.Close()

	tx, err := locker.Begin()
	require.NoError(t, err)
	_, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (998)`)
	require.NoError(t, err)
	defer tx.Rollback()

	err = store.Record(context.Background(), newRecord(domain.StatusSuccess, time.Now().UTC()))
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.True(t, isBusy(storeErr.Err), "exhausted retries should surface the lock error, got %v", storeErr.Err)
}

func TestStoreConcurrentRecords(t *testing.T) {
	store, err := NewOutcomeStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			errs <- store.Record(context.Background(), newRecord(domain.StatusSuccess, time.Now().UTC()))
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	summary, err := store.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, n, summary.Total)
}
