package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_WALMode(t *testing.T) {
	st := newTestSQLiteStore(t)

	var mode string
	require.NoError(t, st.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_NullStatsColumn(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "files", 75)
	require.NoError(t, err)

	_, err = st.db.ExecContext(ctx, `UPDATE runs SET stats = 'null' WHERE id = ?`, run.ID)
	require.NoError(t, err)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Stats)
}

func TestSQLite_CorruptStats(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "files", 75)
	require.NoError(t, err)

	_, err = st.db.ExecContext(ctx, `UPDATE runs SET stats = '{not json' WHERE id = ?`, run.ID)
	require.NoError(t, err)

	_, err = st.GetRun(ctx, run.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal stats")
}

func TestSQLite_ClosedDB(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Close())

	_, err := st.CreateRun(context.Background(), "files", 75)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: insert run")
}

func TestSQLite_ListRunsCreatedAfter(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	old, err := st.CreateRun(ctx, "old", 75)
	require.NoError(t, err)
	_, err = st.db.ExecContext(ctx, `UPDATE runs SET created_at = ? WHERE id = ?`,
		time.Now().UTC().Add(-72*time.Hour), old.ID)
	require.NoError(t, err)

	recent, err := st.CreateRun(ctx, "recent", 75)
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{CreatedAfter: time.Now().Add(-24 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, recent.ID, runs[0].ID)

	runs, err = st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
