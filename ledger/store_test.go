package ledger

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/erbench/am"
	"github.com/teranos/erbench/db"
	"github.com/teranos/erbench/errors"
	erbtest "github.com/teranos/erbench/internal/testing"
	"github.com/teranos/erbench/ixgest/citeseer"
)

func setupStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	conn := erbtest.CreateLedgerDB(t)
	return NewStore(conn, zaptest.NewLogger(t).Sugar()), conn
}

func sampleRun(id string, started time.Time) *Run {
	return &Run{
		ID:              id,
		Status:          StatusSucceeded,
		Input:           "citeseer.dat",
		OutDir:          "out",
		NumFolds:        2,
		Seed:            42,
		SimThreshold:    0.5,
		MangleProb:      0.1,
		NameSimilarity:  "levenshtein",
		TitleSimilarity: "dice",
		Records:         100,
		AuthorClusters:  40,
		EntityGroups:    12,
		ToolVersion:     "dev",
		StartedAt:       started,
		FinishedAt:      started.Add(3 * time.Second),
		Folds: []Fold{
			{Fold: 0, AuthorClusters: 20, Records: 55, Names: 30, Titles: 25, DurationMS: 10,
				Lines: map[string]int{"authorName": 55, "simName": 400}},
			{Fold: 1, AuthorClusters: 20, Records: 45, Names: 28, Titles: 20, DurationMS: 8,
				Lines: map[string]int{"authorName": 45}},
		},
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	run := sampleRun("5f0c1e9a-0000-4000-8000-000000000001", started)
	require.NoError(t, store.Record(ctx, run))

	got, err := store.Get(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Empty(t, got.Error)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, 0.1, got.MangleProb)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 3*time.Second, got.Duration())
	assert.Equal(t, run.Folds, got.Folds)
}

func TestStore_GetByPrefix(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Record(ctx, sampleRun("abc111", now)))
	require.NoError(t, store.Record(ctx, sampleRun("abc222", now)))

	got, err := store.Get(ctx, "abc2")
	require.NoError(t, err)
	assert.Equal(t, "abc222", got.ID)

	_, err = store.Get(ctx, "abc")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = store.Get(ctx, "zzz")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestStore_List(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, store.Record(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"run-c", "run-b", "run-a"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	assert.Empty(t, runs[0].Folds, "list omits folds")

	runs, err = store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStore_RecordFailedRun(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	run := sampleRun("", time.Now().UTC())
	run.Status = StatusFailed
	run.Error = "malformed input record"
	run.Folds = nil
	require.NoError(t, store.Record(ctx, run))
	assert.NotEmpty(t, run.ID, "id generated")

	got, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "malformed input record", got.Error)
	assert.Empty(t, got.Folds)
}

func TestStore_Delete(t *testing.T) {
	store, conn := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.Record(ctx, sampleRun("run-x", time.Now().UTC())))

	require.NoError(t, store.Delete(ctx, "run-x"))

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM prep_fold_lines").Scan(&n))
	assert.Zero(t, n, "folds cascade")

	assert.True(t, errors.IsNotFoundError(store.Delete(ctx, "run-x")))
}

func TestStore_InvalidStatus(t *testing.T) {
	store, _ := setupStore(t)
	run := sampleRun("run-y", time.Now())
	run.Status = "running"
	assert.Error(t, store.Record(context.Background(), run))
}

func TestStore_ClosedDatabase(t *testing.T) {
	store, conn := setupStore(t)
	conn.Close()

	err := store.Record(context.Background(), sampleRun("run-z", time.Now()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrDatabaseClosed))
}

// sqlmock tests cover rollback on partial failure

func TestStore_Record_RollsBackOnFoldFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewStore(conn, nil)
	run := sampleRun("run-m", time.Now())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO prep_runs`).
		WithArgs(run.ID, StatusSucceeded, sqlmock.AnyArg(), run.Input, run.OutDir, run.NumFolds, run.Seed,
			run.SimThreshold, run.MangleProb, run.NameSimilarity, run.TitleSimilarity, run.WriteTruth,
			run.Records, run.AuthorClusters, run.EntityGroups, run.ToolVersion, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO prep_folds`).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = store.Record(context.Background(), run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert fold 0 of run run-m")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List_QueryError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`(?s)SELECT.*FROM prep_runs ORDER BY started_at DESC`).
		WithArgs(5).
		WillReturnError(errors.New("no such table: prep_runs"))

	_, err = NewStore(conn, nil).List(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list runs")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List_BusyHint(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`(?s)SELECT.*FROM prep_runs`).
		WithArgs(5).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})

	_, err = NewStore(conn, nil).List(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, db.IsBusy(err))
	assert.Contains(t, errors.FlattenHints(err), "--no-ledger")
}

func TestFromPrepResult(t *testing.T) {
	started := time.Now()
	result := &citeseer.PrepResult{
		RunID: "r1",
		Params: am.PrepConfig{
			Input: "in.dat", Folds: 1, Seed: 9, OutDir: "o",
			SimThreshold: 0.7, NameSimilarity: "dice", TitleSimilarity: "dice",
		},
		Records:   3,
		Folds:     []citeseer.FoldSummary{{Fold: 0, Records: 3, Lines: map[string]int{"authorName": 3}}},
		Success:   true,
		StartTime: started,
		EndTime:   started.Add(time.Second),
	}

	run := FromPrepResult(result, nil)
	assert.Equal(t, StatusSucceeded, run.Status)
	assert.Equal(t, int64(9), run.Seed)
	assert.Equal(t, 0.7, run.SimThreshold)
	require.Len(t, run.Folds, 1)
	assert.Equal(t, 3, run.Folds[0].Lines["authorName"])

	result.Success = false
	failed := FromPrepResult(result, errors.New("boom"))
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "boom", failed.Error)
}
