package storage

import (
	"fmt"
	"time"

	"github.com/user/sentineldash/internal/model"
	"github.com/user/sentineldash/internal/util"
)

// RunStorage journals finished dashboard operations.
type RunStorage struct {
	db *DB
}

// NewRunStorage creates a new run journal handler.
func NewRunStorage(db *DB) *RunStorage {
	return &RunStorage{db: db}
}

// Save stores a finished run and sets its ID.
func (s *RunStorage) Save(run *model.OperationRun) error {
	return s.db.WithLock(func() error {
		query := `INSERT INTO operation_runs (operation, started_at, duration_ms, outcome, error)
				  VALUES (?, ?, ?, ?, ?)`

		result, err := s.db.Exec(query,
			run.Operation, run.StartedAt.UTC(), float64(run.Duration)/float64(time.Millisecond),
			run.Outcome, nullString(run.Error))
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		id, _ := result.LastInsertId()
		run.ID = id
		return nil
	})
}

// GetRecent returns the latest runs, newest first.
func (s *RunStorage) GetRecent(limit int) ([]model.OperationRun, error) {
	var runs []model.OperationRun
	err := s.db.WithRLock(func() error {
		rows, err := s.db.Query(`SELECT id, operation, started_at, duration_ms, outcome, COALESCE(error, '')
				  FROM operation_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
		if err != nil {
			return fmt.Errorf("failed to query runs: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var run model.OperationRun
			var durationMs float64
			if err := rows.Scan(&run.ID, &run.Operation, &run.StartedAt, &durationMs, &run.Outcome, &run.Error); err != nil {
				return fmt.Errorf("failed to scan run: %w", err)
			}
			run.Duration = time.Duration(durationMs * float64(time.Millisecond))
			runs = append(runs, run)
		}
		return rows.Err()
	})
	return runs, err
}

// Count returns the number of journaled runs.
func (s *RunStorage) Count() (int, error) {
	var n int
	err := s.db.WithRLock(func() error {
		return s.db.QueryRow("SELECT COUNT(*) FROM operation_runs").Scan(&n)
	})
	return n, err
}

// OperationStarted is a no-op; runs are journaled once they finish.
func (s *RunStorage) OperationStarted(string) {}

// OperationFinished journals one guarded operation.
func (s *RunStorage) OperationFinished(key string, elapsed time.Duration, err error) {
	run := &model.OperationRun{
		Operation: key,
		StartedAt: time.Now().Add(-elapsed),
		Duration:  elapsed,
		Outcome:   model.OutcomeSuccess,
	}
	if err != nil {
		run.Outcome = model.OutcomeFailure
		run.Error = err.Error()
	}

	if saveErr := s.Save(run); saveErr != nil {
		util.Warn("Failed to journal %s run: %v", key, saveErr)
	}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
