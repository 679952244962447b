package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/sentineldash/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Initialize(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunStorageSaveAndGetRecent(t *testing.T) {
	s := NewRunStorage(openTestDB(t))
	base := time.Date(2025, 11, 14, 12, 0, 0, 0, time.UTC)

	for i, op := range []string{"intel", "logs", "correlate"} {
		run := &model.OperationRun{
			Operation: op,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:  250 * time.Millisecond,
			Outcome:   model.OutcomeSuccess,
		}
		require.NoError(t, s.Save(run))
		assert.NotZero(t, run.ID)
	}

	runs, err := s.GetRecent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "correlate", runs[0].Operation)
	assert.Equal(t, "logs", runs[1].Operation)
	assert.Equal(t, 250*time.Millisecond, runs[0].Duration)
	assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Minute)))
	assert.Empty(t, runs[0].Error)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRunStorageObserverRecordsOutcome(t *testing.T) {
	s := NewRunStorage(openTestDB(t))

	s.OperationStarted("fetch")
	s.OperationFinished("fetch", 40*time.Millisecond, errors.New("500 Internal Server Error: db unavailable"))
	s.OperationFinished("intel", 10*time.Millisecond, nil)

	runs, err := s.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byOp := map[string]model.OperationRun{}
	for _, r := range runs {
		byOp[r.Operation] = r
	}
	assert.Equal(t, model.OutcomeFailure, byOp["fetch"].Outcome)
	assert.Equal(t, "500 Internal Server Error: db unavailable", byOp["fetch"].Error)
	assert.Equal(t, model.OutcomeSuccess, byOp["intel"].Outcome)
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	n, err := NewRunStorage(db).Count()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.FileExists(t, path)
}
