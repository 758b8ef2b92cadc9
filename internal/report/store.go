package report

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases are rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded invocation of the reconciliation workflow.
type Run struct {
	ID         string
	Root       string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt *time.Time
	Totals     Totals
}

// Totals aggregates the per-file outcomes of a run.
type Totals struct {
	Directories int64
	MediaFiles  int64
	Matched     int64
	Unmatched   int64
	Conflicts   int64
	Renamed     int64
	Embedded    int64
	Verified    int64
	Errors      int64
}

// Outcome is the persisted result for one media file.
type Outcome struct {
	MediaPath   string
	SidecarPath string
	Kind        string
	Renamed     bool
	Embedded    bool
	Verified    bool
	Error       string
	CreatedAt   time.Time
}

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the run history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure report directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// BeginRun inserts a new run row and returns it with a fresh ID.
func (s *Store) BeginRun(ctx context.Context, root string, dryRun bool) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Root:      root,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
	err := s.execWithRetry(ctx,
		"INSERT INTO runs (id, root, dry_run, started_at) VALUES (?, ?, ?, ?)",
		run.ID, run.Root, boolToInt(run.DryRun), run.StartedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordOutcome appends one media file outcome to a run.
func (s *Store) RecordOutcome(ctx context.Context, runID string, o Outcome) error {
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO outcomes (run_id, media_path, sidecar_path, kind, renamed, embedded, verified, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, o.MediaPath, nullableString(o.SidecarPath), o.Kind,
		boolToInt(o.Renamed), boolToInt(o.Embedded), boolToInt(o.Verified),
		nullableString(o.Error), createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// FinishRun stamps the run complete and stores its aggregate counters.
func (s *Store) FinishRun(ctx context.Context, runID string, totals Totals) error {
	err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, directories = ?, media_files = ?, matched = ?,
		 unmatched = ?, conflicts = ?, renamed = ?, embedded = ?, verified = ?, errors = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		totals.Directories, totals.MediaFiles, totals.Matched, totals.Unmatched,
		totals.Conflicts, totals.Renamed, totals.Embedded, totals.Verified, totals.Errors,
		runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

const runColumns = "id, root, dry_run, started_at, finished_at, directories, media_files, matched, unmatched, conflicts, renamed, embedded, verified, errors"

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first. A limit of 0 returns
// everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunOutcomes returns every outcome of a run in insertion order, optionally
// filtered by kind.
func (s *Store) RunOutcomes(ctx context.Context, runID string, kinds ...string) ([]*Outcome, error) {
	query := "SELECT media_path, sidecar_path, kind, renamed, embedded, verified, error, created_at FROM outcomes WHERE run_id = ?"
	args := []any{runID}
	if len(kinds) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(kinds)), ",")
		query += " AND kind IN (" + placeholders + ")"
		for _, kind := range kinds {
			args = append(args, kind)
		}
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*Outcome
	for rows.Next() {
		var (
			o           Outcome
			sidecarPath sql.NullString
			errMsg      sql.NullString
			renamed     int
			embedded    int
			verified    int
			createdAt   string
		)
		if err := rows.Scan(&o.MediaPath, &sidecarPath, &o.Kind, &renamed, &embedded, &verified, &errMsg, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.SidecarPath = sidecarPath.String
		o.Error = errMsg.String
		o.Renamed = renamed != 0
		o.Embedded = embedded != 0
		o.Verified = verified != 0
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			o.CreatedAt = ts
		}
		outcomes = append(outcomes, &o)
	}
	return outcomes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		dryRun     int
		startedAt  string
		finishedAt sql.NullString
	)
	err := row.Scan(&run.ID, &run.Root, &dryRun, &startedAt, &finishedAt,
		&run.Totals.Directories, &run.Totals.MediaFiles, &run.Totals.Matched,
		&run.Totals.Unmatched, &run.Totals.Conflicts, &run.Totals.Renamed,
		&run.Totals.Embedded, &run.Totals.Verified, &run.Totals.Errors)
	if err != nil {
		return nil, err
	}
	run.DryRun = dryRun != 0
	if ts, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		run.StartedAt = ts
	}
	if finishedAt.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, finishedAt.String); err == nil {
			run.FinishedAt = &ts
		}
	}
	return &run, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
