package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/parley"
	"github.com/fwojciec/parley/mock"
	"github.com/fwojciec/parley/session"
	"github.com/fwojciec/parley/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("missing key is not found", func(t *testing.T) {
		t.Parallel()
		s := openStore(t, filepath.Join(t.TempDir(), "parley.db"))
		_, err := s.Get("session")
		assert.ErrorIs(t, err, parley.ErrNotFound)
	})

	t.Run("put then get and overwrite", func(t *testing.T) {
		t.Parallel()
		s := openStore(t, filepath.Join(t.TempDir(), "parley.db"))
		require.NoError(t, s.Put("k", []byte("one")))
		require.NoError(t, s.Put("k", []byte("two")))
		got, err := s.Get("k")
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), got)
	})

	t.Run("nil value is stored as empty", func(t *testing.T) {
		t.Parallel()
		s := openStore(t, filepath.Join(t.TempDir(), "parley.db"))
		require.NoError(t, s.Put("k", nil))
		got, err := s.Get("k")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("data survives reopening", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "parley.db")
		s, err := sqlite.Open(path)
		require.NoError(t, err)
		require.NoError(t, s.Put("k", []byte("kept")))
		require.NoError(t, s.Close())

		reopened := openStore(t, path)
		got, err := reopened.Get("k")
		require.NoError(t, err)
		assert.Equal(t, []byte("kept"), got)
	})
}

func TestStore_BacksSession(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "parley.db")
	first := openStore(t, path)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := session.Open(first, session.WithClock(func() time.Time { return at }))
	thread := s.CreateThread()
	require.NoError(t, s.AppendMessage(thread.ID, parley.NewUserMessage("persist me", thread.CreatedAt)))
	want := s.Snapshot()

	restored := session.Open(openStore(t, path))
	assert.Equal(t, want, restored.Snapshot())

	// A session backed by an in-memory store starts fresh.
	fresh := session.Open(mock.NewMemoryStore())
	assert.Len(t, fresh.Snapshot().Threads, 1)
}
