// Package sqlite provides the durable OutcomeRecord store backed by an
// embedded SQLite database at {output_dir}/processing_results.db.
//
// The database is opened in WAL mode with a busy timeout, and writes use a
// bounded retry with backoff on lock contention, so the store tolerates
// concurrent appends even though the batch service already serialises its
// writes through a single recorder goroutine.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hearth-labs/hearth-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
)

// DBFileName is the store file created inside the output directory.
const DBFileName = "processing_results.db"

// Bounded retry on SQLITE_BUSY.
const (
	writeAttempts = 5
	retryBackoff  = 50 * time.Millisecond
)

// busyTimeoutMS is how long the driver itself waits on a write lock before
// surfacing SQLITE_BUSY to the retry loop.
const busyTimeoutMS = 5000

// Ensure OutcomeStore implements the interface.
var _ driven.OutcomeStore = (*OutcomeStore)(nil)

// OutcomeStore is the SQLite-backed outcome table.
type OutcomeStore struct {
	db   *sql.DB
	path string
}

// NewOutcomeStore opens (creating or appending) the store inside
// outputDir.
func NewOutcomeStore(outputDir string) (*OutcomeStore, error) {
	return newOutcomeStore(outputDir, busyTimeoutMS)
}

func newOutcomeStore(outputDir string, busyTimeout int) (*OutcomeStore, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	dbPath := filepath.Join(outputDir, DBFileName)

	// WAL mode for concurrent readers, busy timeout for writer contention.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", dbPath, busyTimeout)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &OutcomeStore{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Open adapts NewOutcomeStore to the driven.OutcomeStoreOpener signature.
func Open(outputDir string) (driven.OutcomeStore, error) {
	return NewOutcomeStore(outputDir)
}

// Close closes the database connection.
func (s *OutcomeStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *OutcomeStore) Path() string {
	return s.path
}

// Record inserts exactly one row for one document. The insert is a single
// statement: it either lands whole or not at all, never partially.
func (s *OutcomeStore) Record(ctx context.Context, rec domain.OutcomeRecord) error {
	warnings, err := json.Marshal(rec.Warnings)
	if err != nil {
		return &domain.StoreError{Op: "encode warnings", Err: err}
	}
	if rec.Warnings == nil {
		warnings = []byte("[]")
	}

	const q = `
		INSERT INTO outcome_records (
			id, filepath, filename, directory, status,
			start_time, end_time, duration_seconds,
			output_path, error_message, error_type, error_category,
			warnings, processed_at, worker_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []any{
		rec.ID, rec.Filepath, rec.Filename, rec.Directory, string(rec.Status),
		rec.StartTime.UTC().Format(time.RFC3339Nano),
		rec.EndTime.UTC().Format(time.RFC3339Nano),
		rec.DurationSeconds,
		rec.OutputPath, rec.ErrorMessage, rec.ErrorType, rec.ErrorCategory,
		string(warnings),
		rec.ProcessedAt.UTC().Format(time.RFC3339Nano),
		rec.WorkerID,
	}

	for attempt := 1; ; attempt++ {
		_, err = s.db.ExecContext(ctx, q, args...)
		if err == nil {
			return nil
		}
		if !isBusy(err) || attempt >= writeAttempts {
			return &domain.StoreError{Op: "record", Err: err}
		}
		select {
		case <-ctx.Done():
			return &domain.StoreError{Op: "record", Err: ctx.Err()}
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
}

// Summary returns per-status row counts.
func (s *OutcomeStore) Summary(ctx context.Context) (domain.StoreSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM outcome_records GROUP BY status`)
	if err != nil {
		return domain.StoreSummary{}, &domain.StoreError{Op: "summary", Err: err}
	}
	defer rows.Close()

	var summary domain.StoreSummary
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return domain.StoreSummary{}, &domain.StoreError{Op: "summary", Err: err}
		}
		summary.Total += count
		switch domain.Status(status) {
		case domain.StatusSuccess:
			summary.Succeeded = count
		case domain.StatusFailure:
			summary.Failed = count
		}
	}
	return summary, rows.Err()
}

// FailuresByCategory returns failure counts keyed by error_category.
func (s *OutcomeStore) FailuresByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(error_category, 'Unknown'), COUNT(*)
		FROM outcome_records
		WHERE status = 'Failure'
		GROUP BY error_category`)
	if err != nil {
		return nil, &domain.StoreError{Op: "failure breakdown", Err: err}
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, &domain.StoreError{Op: "failure breakdown", Err: err}
		}
		out[category] = count
	}
	return out, rows.Err()
}

// List returns the most recent records, newest first.
func (s *OutcomeStore) List(ctx context.Context, limit int) ([]domain.OutcomeRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filepath, filename, directory, status,
		       start_time, end_time, duration_seconds,
		       output_path, error_message, error_type, error_category,
		       warnings, processed_at, worker_id
		FROM outcome_records
		ORDER BY processed_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	var records []domain.OutcomeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &domain.StoreError{Op: "list", Err: err}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (domain.OutcomeRecord, error) {
	var (
		rec                         domain.OutcomeRecord
		status                      string
		startRaw, endRaw, atRaw     string
		warningsRaw                 string
		outputPath, errMsg, errType sql.NullString
		errCategory                 sql.NullString
	)
	err := rows.Scan(
		&rec.ID, &rec.Filepath, &rec.Filename, &rec.Directory, &status,
		&startRaw, &endRaw, &rec.DurationSeconds,
		&outputPath, &errMsg, &errType, &errCategory,
		&warningsRaw, &atRaw, &rec.WorkerID,
	)
	if err != nil {
		return rec, err
	}

	rec.Status = domain.Status(status)
	rec.OutputPath = nullable(outputPath)
	rec.ErrorMessage = nullable(errMsg)
	rec.ErrorType = nullable(errType)
	rec.ErrorCategory = nullable(errCategory)
	if rec.StartTime, err = time.Parse(time.RFC3339Nano, startRaw); err != nil {
		return rec, err
	}
	if rec.EndTime, err = time.Parse(time.RFC3339Nano, endRaw); err != nil {
		return rec, err
	}
	if rec.ProcessedAt, err = time.Parse(time.RFC3339Nano, atRaw); err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(warningsRaw), &rec.Warnings); err != nil {
		return rec, err
	}
	return rec, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// isBusy reports whether an error is SQLite lock contention worth retrying.
func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}

// migrate runs all pending migrations.
func (s *OutcomeStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			return fmt.Errorf("migration %s: unparsable version prefix", name)
		}
		if version <= currentVersion {
			continue
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(data)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
