// Package storetest holds the behaviour every store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/history"
	"github.com/matzehuels/sprintboard/pkg/store"
)

// Fixture returns a document with a placed task, a parked task and one undo step.
func Fixture(t *testing.T, id string) *store.Document {
	t.Helper()
	b := board.New(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	placed, err := b.AddTask("design")
	require.NoError(t, err)
	_, err = b.AddTask("later")
	require.NoError(t, err)

	h := history.New[*board.Board](10)
	h.Record(b.Clone())
	_, err = b.PlaceTask(placed.ID, b.Members[0].Lane(), 0, 187.5)
	require.NoError(t, err)

	return &store.Document{
		ID:        id,
		Board:     b,
		History:   h,
		UpdatedAt: time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC),
	}
}

// Run exercises a store created by newStore. Each subtest gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		s := newStore(t)
		doc := Fixture(t, "alpha")
		require.NoError(t, s.Put(ctx, doc))

		got, err := s.Get(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, doc.ID, got.ID)
		assert.Equal(t, doc.Board.Tasks, got.Board.Tasks)
		assert.Equal(t, doc.Board.Members, got.Board.Members)
		assert.True(t, doc.UpdatedAt.Equal(got.UpdatedAt))
		require.NotNil(t, got.History)
		assert.True(t, got.History.CanUndo())

		prev, ok := got.History.Undo(got.Board)
		require.True(t, ok)
		assert.False(t, prev.Tasks[0].Placed())
	})

	t.Run("put replaces", func(t *testing.T) {
		s := newStore(t)
		doc := Fixture(t, "alpha")
		require.NoError(t, s.Put(ctx, doc))

		doc.Board.ProjectTitle = "Q3 roadmap"
		require.NoError(t, s.Put(ctx, doc))

		got, err := s.Get(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, "Q3 roadmap", got.Board.ProjectTitle)
	})

	t.Run("returned documents are copies", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, Fixture(t, "alpha")))

		got, err := s.Get(ctx, "alpha")
		require.NoError(t, err)
		got.Board.Tasks[0].Title = "mutated"

		again, err := s.Get(ctx, "alpha")
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", again.Board.Tasks[0].Title)
	})

	t.Run("missing board", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "nope"), store.ErrNotFound)
	})

	t.Run("list and delete", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []string{"charlie", "alpha", "bravo"} {
			require.NoError(t, s.Put(ctx, Fixture(t, id)))
		}

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "alpha", list[0].ID)
		assert.Equal(t, "bravo", list[1].ID)
		assert.Equal(t, "charlie", list[2].ID)
		assert.Equal(t, board.DefaultProjectTitle, list[0].Title)
		assert.Equal(t, 2, list[0].Tasks)

		require.NoError(t, s.Delete(ctx, "bravo"))
		list, err = s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
		_, err = s.Get(ctx, "bravo")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
