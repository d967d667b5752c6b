package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sprintboard/pkg/store"
	"github.com/matzehuels/sprintboard/pkg/store/sqlite"
	"github.com/matzehuels/sprintboard/pkg/store/storetest"
)

func newStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(context.Background(), sqlite.StoreConfig{DBPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newStore(t, filepath.Join(t.TempDir(), "boards.db"))
	})
}

func TestReopenKeepsBoards(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "boards.db")

	s, err := sqlite.New(ctx, sqlite.StoreConfig{DBPath: path})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, storetest.Fixture(t, "alpha")))
	require.NoError(t, s.Close())

	// Migrations are already applied; opening again must not fail.
	reopened := newStore(t, path)
	got, err := reopened.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Len(t, got.Board.Tasks, 2)
}

func TestRequiresPath(t *testing.T) {
	_, err := sqlite.New(context.Background(), sqlite.StoreConfig{})
	assert.Error(t, err)
}
