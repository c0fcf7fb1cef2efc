// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records batch runs and their per-file outcomes in SQLite so
// that past conversions can be listed with the history command.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/svgbatch/pkg/types"
)

const defaultRecent = 20

// Store manages the ledger SQLite database.
type Store struct {
	db *sql.DB
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	types.RunInfo
	Converted int
	Skipped   int
	Failed    int
	Cancelled int
}

// JobRow is one row of the jobs table.
type JobRow struct {
	Source     string
	Output     string
	Status     types.ConversionStatus
	Error      string
	Stderr     string
	DurationMS int64
}

// Open opens or creates the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			dir TEXT NOT NULL,
			backend TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			cancelled INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			stderr TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_run_id ON jobs(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores info and its results in one transaction. A missing
// info.ID is filled with a new UUID, which is returned.
func (s *Store) RecordRun(ctx context.Context, info types.RunInfo, results []types.JobResult) (string, error) {
	if info.ID == "" {
		info.ID = uuid.NewString()
	}

	var converted, skipped, failed, cancelled int
	for _, r := range results {
		switch r.Status {
		case types.ConversionDone:
			converted++
		case types.ConversionSkipped:
			skipped++
		case types.ConversionFailed:
			failed++
		case types.ConversionCancelled:
			cancelled++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, dir, backend, width, height, started_at, finished_at, converted, skipped, failed, cancelled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.ID, info.Dir, info.Backend, info.Width, info.Height,
		info.StartedAt.UnixNano(), info.FinishedAt.UnixNano(),
		converted, skipped, failed, cancelled,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run %s: %w", info.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO jobs (run_id, source, output, status, error, stderr, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing job insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		var errText string
		if r.Err != nil {
			errText = r.Err.Error()
		}
		if _, err := stmt.ExecContext(ctx, info.ID, r.Job.SourcePath, r.Job.OutputPath,
			string(r.Status), errText, r.Stderr, r.Duration.Milliseconds()); err != nil {
			return "", fmt.Errorf("inserting job %s: %w", r.Job.SourcePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run %s: %w", info.ID, err)
	}
	return info.ID, nil
}

// Recent returns up to limit runs, newest first. Runs that started at the
// same instant are ordered by insertion. A limit <= 0 uses 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = defaultRecent
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dir, backend, width, height, started_at, finished_at, converted, skipped, failed, cancelled
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Dir, &r.Backend, &r.Width, &r.Height,
			&started, &finished, &r.Converted, &r.Skipped, &r.Failed, &r.Cancelled); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = time.Unix(0, started).UTC()
		r.FinishedAt = time.Unix(0, finished).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Jobs returns the job rows recorded for runID in insertion order.
func (s *Store) Jobs(ctx context.Context, runID string) ([]JobRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, output, status, COALESCE(error, ''), COALESCE(stderr, ''), COALESCE(duration_ms, 0)
		 FROM jobs WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying jobs for run %s: %w", runID, err)
	}
	defer rows.Close()

	var jobs []JobRow
	for rows.Next() {
		var j JobRow
		var status string
		if err := rows.Scan(&j.Source, &j.Output, &status, &j.Error, &j.Stderr, &j.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.Status = types.ConversionStatus(status)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
