package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists evaluation runs and their per-subject metric values in
// SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the results database and applies the schema.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("results database path required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create results directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Run is one recorded evaluation run.
type Run struct {
	ID          string
	Dataset     string
	PredFolder  string
	StartedAt   time.Time
	CompletedAt time.Time
	Subjects    int
	Skipped     int
}

// Completed reports whether the run recorded a completion time.
func (r Run) Completed() bool {
	return !r.CompletedAt.IsZero()
}

// Measurement is one metric value for one subject within a run.
type Measurement struct {
	Subject string
	Metric  string
	Value   float64
}

// BeginRun records the start of an evaluation run.
func (s *Store) BeginRun(ctx context.Context, id, dataset, predFolder string) error {
	started := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, dataset, pred_folder, started_at) VALUES (?, ?, ?, ?)`,
		id, dataset, predFolder, started,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// CompleteRun records the end of a run with its subject counts.
func (s *Store) CompleteRun(ctx context.Context, id string, subjects, skipped int) error {
	completed := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET completed_at = ?, subjects = ?, skipped = ? WHERE id = ?`,
		completed, subjects, skipped, id,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("complete run: unknown run %s", id)
	}
	return nil
}

// AddMeasurement stores one metric value for a subject.
func (s *Store) AddMeasurement(ctx context.Context, runID, subject, metric string, value float64) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO measurements (run_id, subject, metric, value) VALUES (?, ?, ?, ?)`,
		runID, subject, metric, value,
	)
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit <= 0 returns
// everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, dataset, pred_folder, started_at, completed_at, subjects, skipped
        FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Measurements returns every value recorded for a run in insertion order.
func (s *Store) Measurements(ctx context.Context, runID string) ([]Measurement, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT subject, metric, value FROM measurements WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer rows.Close()

	var measurements []Measurement
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(&m.Subject, &m.Metric, &m.Value); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return measurements, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run       Run
		started   string
		completed sql.NullString
	)
	if err := rows.Scan(&run.ID, &run.Dataset, &run.PredFolder, &started, &completed, &run.Subjects, &run.Skipped); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	startedAt, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	run.StartedAt = startedAt
	if completed.Valid && completed.String != "" {
		completedAt, err := time.Parse(time.RFC3339Nano, completed.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse completed_at: %w", err)
		}
		run.CompletedAt = completedAt
	}
	return run, nil
}
