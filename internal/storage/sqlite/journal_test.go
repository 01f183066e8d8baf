package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewJournal(db)
}

func TestJournal_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	require.NoError(t, j.Record(ctx, "a", core.CommandResult{
		Status:  core.StatusQueued,
		Command: "open_application",
		Payload: map[string]string{"application": "notepad"},
	}))
	require.NoError(t, j.Record(ctx, "b", core.CommandResult{
		Status:  core.StatusError,
		Command: "capture_screenshot",
		Payload: map[string]string{},
	}))

	got, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, core.StatusError, got[0].Status)
	assert.Empty(t, got[0].Payload)

	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "open_application", got[1].Command)
	assert.Equal(t, map[string]string{"application": "notepad"}, got[1].Payload)
	assert.False(t, got[1].CreatedAt.IsZero())
}

func TestJournal_RecentLimit(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, j.Record(ctx, id, core.CommandResult{Status: core.StatusQueued, Command: "capture_screenshot"}))
	}

	got, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestJournal_DuplicateID(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	res := core.CommandResult{Status: core.StatusQueued, Command: "capture_screenshot"}
	require.NoError(t, j.Record(ctx, "same", res))
	assert.Error(t, j.Record(ctx, "same", res))
}

func TestNewDB_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDB(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
