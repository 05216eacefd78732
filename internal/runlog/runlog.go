// Package runlog records pipeline run history in a local SQLite database.
package runlog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Run is one recorded pipeline run.
type Run struct {
	ID          string
	Status      string
	StartedAt   time.Time
	CompletedAt *time.Time
	BudgetRows  int
	ExpenseRows int
	GoldRows    int
	OutputPath  string
	Error       string
}

// Run statuses.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Log provides read/write access to the run history database.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the run log at the given path and applies the
// schema.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrapf(err, "runlog: create dir for %s", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "runlog: exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS pipeline_runs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'running',
	started_at   DATETIME NOT NULL,
	completed_at DATETIME,
	budget_rows  INTEGER NOT NULL DEFAULT 0,
	expense_rows INTEGER NOT NULL DEFAULT 0,
	gold_rows    INTEGER NOT NULL DEFAULT 0,
	output_path  TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_pipeline_runs_started_at ON pipeline_runs(started_at);
`
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "runlog: migrate")
	}

	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Start records the beginning of a run and returns its ID.
func (l *Log) Start(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO pipeline_runs (id, status, started_at) VALUES (?, ?, ?)`,
		id, StatusRunning, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "runlog: start run")
	}
	return id, nil
}

// Complete marks a run as successfully completed with its row counts.
func (l *Log) Complete(ctx context.Context, runID string, budgetRows, expenseRows, goldRows int, outputPath string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE pipeline_runs
		 SET status = ?, completed_at = ?, budget_rows = ?, expense_rows = ?, gold_rows = ?, output_path = ?
		 WHERE id = ?`,
		StatusComplete, time.Now().UTC(), budgetRows, expenseRows, goldRows, outputPath, runID,
	)
	return eris.Wrapf(err, "runlog: complete run %s", runID)
}

// Fail marks a run as failed with an error message.
func (l *Log) Fail(ctx context.Context, runID, errMsg string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE pipeline_runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		StatusFailed, time.Now().UTC(), errMsg, runID,
	)
	return eris.Wrapf(err, "runlog: fail run %s", runID)
}

// List returns the most recent runs, newest first.
func (l *Log) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, status, started_at, completed_at, budget_rows, expense_rows, gold_rows, output_path, error
		 FROM pipeline_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var completed sql.NullTime
		if err := rows.Scan(&r.ID, &r.Status, &r.StartedAt, &completed,
			&r.BudgetRows, &r.ExpenseRows, &r.GoldRows, &r.OutputPath, &r.Error); err != nil {
			return nil, eris.Wrap(err, "runlog: scan run")
		}
		if completed.Valid {
			t := completed.Time
			r.CompletedAt = &t
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "runlog: iterate runs")
}
