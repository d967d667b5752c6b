// Package store persists boards together with their undo history.
//
// A [Store] holds one [Document] per board. Backends live in subpackages:
//   - file: JSON files in a directory, the CLI default
//   - memory: an in-process map, for tests and ephemeral servers
//   - sqlite: a single SQLite database with embedded migrations
//   - redis: shared storage for several API instances
//   - mongo: one MongoDB document per board
//
// The backend package opens whichever one the configuration selects.
//
// Backends report a missing board with an error wrapping [ErrNotFound], and
// mark transient failures (network, busy database) with [Retryable] so
// [RetryWithBackoff] and [Instrument] can retry them.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/history"
)

// ErrNotFound is returned when a board does not exist.
// It carries the NOT_FOUND code, so errors.Is from pkg/errors matches it too.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "board not found")

// Document is the persisted unit: a board and the history that leads to it.
type Document struct {
	ID        string                       `json:"id" bson:"_id"`
	Board     *board.Board                 `json:"board" bson:"board"`
	History   *history.Stack[*board.Board] `json:"history,omitempty" bson:"history,omitempty"`
	UpdatedAt time.Time                    `json:"updatedAt" bson:"updated_at"`
}

// Summary is the listing view of a document.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tasks     int       `json:"tasks"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary returns the listing view of d.
func (d *Document) Summary() Summary {
	s := Summary{ID: d.ID, UpdatedAt: d.UpdatedAt}
	if d.Board != nil {
		s.Title = d.Board.ProjectTitle
		s.Tasks = len(d.Board.Tasks)
	}
	return s
}

// Store is the interface for board storage backends.
type Store interface {
	// Get returns the document with the given id, or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (*Document, error)

	// Put creates or replaces a document.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document, or returns an error wrapping ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all documents ordered by id.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}
