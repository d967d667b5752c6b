package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sprintboard/pkg/config"
	"github.com/matzehuels/sprintboard/pkg/store/storetest"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.Store
	}{
		{"file", config.Store{Backend: config.BackendFile, Dir: filepath.Join(dir, "boards")}},
		{"memory", config.Store{Backend: config.BackendMemory}},
		{"sqlite", config.Store{Backend: config.BackendSQLite, SQLite: config.SQLite{Path: filepath.Join(dir, "b.db")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, err := Open(ctx, tt.cfg, nil)
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Put(ctx, storetest.Fixture(t, "alpha")))
			got, err := s.Get(ctx, "alpha")
			require.NoError(t, err)
			assert.Equal(t, "alpha", got.ID)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.Store{Backend: "tape"}, nil)
	assert.Error(t, err)
}
