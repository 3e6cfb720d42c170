package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one pipeline invocation as recorded in the ledger.
type Run struct {
	ID          string
	SourceURL   string
	Title       string
	Status      string
	FailedStage string
	Error       string
	SummaryPath string
	BlobKey     string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// StatusRunning marks a run that has started but not finished.
const StatusRunning = "running"

// Store is a sqlite ledger of runs. It is written for auditing only and
// never consulted to resume work.
type Store struct {
	db *sql.DB
}

// Open opens (and creates when missing) the ledger at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}

	// WAL lets `history` read while a watch process writes.
	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA journal_mode = WAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure history: %w", err)
	}

	s := &Store{db: db}
	if err := s.initTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history table: %w", err)
	}
	return s, nil
}

func (s *Store) initTable() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		failed_stage TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		summary_path TEXT NOT NULL DEFAULT '',
		blob_key TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		finished_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Start records a new running run.
func (s *Store) Start(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source_url, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.SourceURL, StatusRunning, run.StartedAt.UTC())
	return err
}

// Finish stores the final state of a run.
func (s *Store) Finish(ctx context.Context, run Run) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET title = ?, status = ?, failed_stage = ?, error = ?, summary_path = ?, blob_key = ?, finished_at = ?
		WHERE id = ?`,
		run.Title, run.Status, run.FailedStage, run.Error, run.SummaryPath, run.BlobKey, run.FinishedAt.UTC(), run.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	return nil
}

// List returns the most recent runs first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_url, title, status, failed_stage, error, summary_path, blob_key, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.SourceURL, &r.Title, &r.Status, &r.FailedStage, &r.Error,
			&r.SummaryPath, &r.BlobKey, &r.StartedAt, &finished); err != nil {
			return nil, err
		}
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
