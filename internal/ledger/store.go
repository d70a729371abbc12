// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists uploaded training files and fine-tuning jobs in a
// local SQLite database so that monitoring can resume after an interrupt.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/quote-forge/pkg/types"
)

const (
	dbFile = "jobs.db"

	// tsLayout has a fixed width so that stored timestamps sort as text.
	tsLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("no such record")

// now is replaced in tests.
var now = time.Now

// Store is the job ledger.
type Store struct {
	db *sql.DB
}

// Open opens or creates stateDir/jobs.db and its schema.
func Open(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
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
		`CREATE TABLE IF NOT EXISTS uploads (
			file_id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			bytes INTEGER,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			job_id TEXT PRIMARY KEY,
			file_id TEXT,
			training_path TEXT,
			model TEXT,
			suffix TEXT,
			epochs INTEGER,
			status TEXT NOT NULL,
			fine_tuned_model TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_created ON jobs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

// RecordUpload inserts or updates an uploaded file.
func (s *Store) RecordUpload(ctx context.Context, f types.UploadedFile, path string) error {
	ts := stamp(now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (file_id, path, bytes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET status = excluded.status, bytes = excluded.bytes, updated_at = excluded.updated_at`,
		f.ID, path, f.Bytes, string(f.Status), ts, ts)
	if err != nil {
		return fmt.Errorf("recording upload %s: %w", f.ID, err)
	}
	return nil
}

// UploadStatus returns the recorded status and path of a file.
func (s *Store) UploadStatus(ctx context.Context, fileID string) (types.FileStatus, string, error) {
	var status, path string
	err := s.db.QueryRowContext(ctx, `SELECT status, path FROM uploads WHERE file_id = ?`, fileID).Scan(&status, &path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("reading upload %s: %w", fileID, err)
	}
	return types.FileStatus(status), path, nil
}

// RecordJob inserts a new job, or replaces the row for the same job id.
func (s *Store) RecordJob(ctx context.Context, rec types.JobRecord) error {
	t := now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = t
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = t
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO jobs
			(job_id, file_id, training_path, model, suffix, epochs, status, fine_tuned_model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.JobID, rec.FileID, rec.TrainingPath, rec.Model, rec.Suffix, rec.Epochs,
		string(rec.Status), rec.FineTunedModel, stamp(rec.CreatedAt), stamp(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("recording job %s: %w", rec.JobID, err)
	}
	return nil
}

// UpdateJob stores the latest status of a job as reported by the API. A job
// not yet in the ledger is added.
func (s *Store) UpdateJob(ctx context.Context, j types.FineTuneJob) error {
	ts := stamp(now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (job_id, file_id, model, status, fine_tuned_model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			status = excluded.status,
			fine_tuned_model = CASE WHEN excluded.fine_tuned_model != '' THEN excluded.fine_tuned_model ELSE jobs.fine_tuned_model END,
			updated_at = excluded.updated_at`,
		j.ID, j.TrainingFile, j.Model, string(j.Status), j.FineTunedModel, ts, ts)
	if err != nil {
		return fmt.Errorf("updating job %s: %w", j.ID, err)
	}
	return nil
}

const jobColumns = `job_id, COALESCE(file_id, ''), COALESCE(training_path, ''), COALESCE(model, ''),
	COALESCE(suffix, ''), COALESCE(epochs, 0), status, COALESCE(fine_tuned_model, ''), created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (types.JobRecord, error) {
	var (
		rec              types.JobRecord
		status           string
		created, updated string
	)
	if err := row.Scan(&rec.JobID, &rec.FileID, &rec.TrainingPath, &rec.Model,
		&rec.Suffix, &rec.Epochs, &status, &rec.FineTunedModel, &created, &updated); err != nil {
		return rec, err
	}
	rec.Status = types.JobStatus(status)
	rec.CreatedAt, _ = time.Parse(tsLayout, created)
	rec.UpdatedAt, _ = time.Parse(tsLayout, updated)
	return rec, nil
}

// Job returns the record for jobID.
func (s *Store) Job(ctx context.Context, jobID string) (types.JobRecord, error) {
	rec, err := scanJob(s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE job_id = ?`, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("reading job %s: %w", jobID, err)
	}
	return rec, nil
}

// LatestActive returns the most recently created job that has not reached
// a terminal status.
func (s *Store) LatestActive(ctx context.Context) (types.JobRecord, error) {
	rec, err := scanJob(s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs
		WHERE status NOT IN (?, ?, ?)
		ORDER BY created_at DESC LIMIT 1`,
		string(types.JobSucceeded), string(types.JobFailed), string(types.JobCancelled)))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("reading active job: %w", err)
	}
	return rec, nil
}

// Jobs returns up to limit jobs, newest first. A limit of 0 returns all.
func (s *Store) Jobs(ctx context.Context, limit int) ([]types.JobRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var out []types.JobRecord
	for rows.Next() {
		rec, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
