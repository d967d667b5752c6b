package migrations_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/sprintboard/pkg/store/sqlite/migrations"
)

func TestUpDown(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := migrations.NewMigrator(db, nil)
	require.NoError(t, err)

	require.NoError(t, m.Up(ctx))
	v, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)

	// Running again is a no-op.
	require.NoError(t, m.Up(ctx))

	_, err = db.ExecContext(ctx, `INSERT INTO boards (id, board, updated_at) VALUES ('a', '{}', 0)`)
	require.NoError(t, err)

	require.NoError(t, m.Down(ctx))
	_, err = db.ExecContext(ctx, `SELECT 1 FROM boards`)
	assert.Error(t, err)
}

func TestNewMigratorRequiresDB(t *testing.T) {
	_, err := migrations.NewMigrator(nil, nil)
	assert.Error(t, err)
}
