// Package store persists a record of past runs to a local sqlite database.
// The store is observational only: plans are never resumed from it, each
// request always synthesizes a fresh plan.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/avendel/stepflow/internal/types"
)

// HistoryStore records run outcomes in sqlite
type HistoryStore struct {
	DB *sql.DB
}

// RunRecord is one persisted run
type RunRecord struct {
	ID          int64
	Request     string
	Description string
	TotalSteps  int
	Completed   int
	Status      string
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// StepRecord is one persisted step outcome
type StepRecord struct {
	StepID      int
	Description string
	Status      string
	Files       []string
}

// Open opens (or creates) the history database at the given path
func Open(dbPath string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("cannot create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open history database: %w", err)
	}

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request TEXT,
			description TEXT,
			total_steps INTEGER,
			completed_steps INTEGER,
			status TEXT,
			error TEXT,
			started_at DATETIME,
			finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS run_steps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER,
			step_id INTEGER,
			description TEXT,
			status TEXT,
			files TEXT
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return nil, fmt.Errorf("cannot initialize history schema: %w", err)
		}
	}

	return &HistoryStore{DB: db}, nil
}

// Close closes the underlying database
func (h *HistoryStore) Close() error {
	return h.DB.Close()
}

// RecordRun persists the final state of a plan and its steps
func (h *HistoryStore) RecordRun(plan *types.Plan, runErr error, startedAt time.Time) (int64, error) {
	status := "completed"
	errText := ""
	if runErr != nil {
		status = "failed"
		errText = runErr.Error()
	}

	result, err := h.DB.Exec(
		`INSERT INTO runs (request, description, total_steps, completed_steps, status, error, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.Request, plan.Description, plan.TotalSteps, plan.CompletedCount(), status, errText, startedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("cannot record run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("cannot read run id: %w", err)
	}

	for i := range plan.Steps {
		step := &plan.Steps[i]
		files, err := json.Marshal(step.Files)
		if err != nil {
			return 0, fmt.Errorf("cannot encode step files: %w", err)
		}
		_, err = h.DB.Exec(
			`INSERT INTO run_steps (run_id, step_id, description, status, files)
			 VALUES (?, ?, ?, ?, ?)`,
			runID, step.ID, step.Description, step.Status.String(), string(files),
		)
		if err != nil {
			return 0, fmt.Errorf("cannot record step %d: %w", step.ID, err)
		}
	}

	return runID, nil
}

// RecentRuns returns the most recent runs, newest first
func (h *HistoryStore) RecentRuns(limit int) ([]RunRecord, error) {
	rows, err := h.DB.Query(
		`SELECT id, request, description, total_steps, completed_steps, status, error, started_at, finished_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Request, &r.Description, &r.TotalSteps, &r.Completed,
			&r.Status, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("cannot scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunSteps returns the recorded steps for a run, in plan order
func (h *HistoryStore) RunSteps(runID int64) ([]StepRecord, error) {
	rows, err := h.DB.Query(
		`SELECT step_id, description, status, files FROM run_steps
		 WHERE run_id = ? ORDER BY step_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("cannot query steps: %w", err)
	}
	defer rows.Close()

	var steps []StepRecord
	for rows.Next() {
		var s StepRecord
		var files string
		if err := rows.Scan(&s.StepID, &s.Description, &s.Status, &files); err != nil {
			return nil, fmt.Errorf("cannot scan step: %w", err)
		}
		if files != "" {
			if err := json.Unmarshal([]byte(files), &s.Files); err != nil {
				return nil, fmt.Errorf("cannot decode step files: %w", err)
			}
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}
