// Package service is the commit boundary between board operations and storage.
//
// Every mutation goes through [Service.Apply]: the document is loaded, the
// current board is recorded in the undo history, the operation runs against
// the board, and the result is saved. An operation that fails leaves the stored
// document untouched, and one that changes nothing leaves no history entry.
//
// Row resolution itself stays in pkg/layout and pkg/board; the service only
// decides when a resolved row becomes durable. Drag previews go through
// [Service.Preview] and never write.
package service

import (
	"context"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/history"
	"github.com/matzehuels/sprintboard/pkg/layout"
	"github.com/matzehuels/sprintboard/pkg/observability"
	"github.com/matzehuels/sprintboard/pkg/store"
)

// Errors returned by Undo and Redo when a branch is empty.
var (
	ErrNothingToUndo = errors.New(errors.ErrCodeInvalidInput, "nothing to undo")
	ErrNothingToRedo = errors.New(errors.ErrCodeInvalidInput, "nothing to redo")
)

// Options configures a Service.
type Options struct {
	// HistoryLimit bounds the undo depth; 0 means history.DefaultLimit.
	HistoryLimit int
	Logger       *log.Logger
	// Metrics bounds resized widths; defaults to layout.DefaultMetrics.
	Metrics layout.Metrics
	// Now stamps documents and new boards; defaults to time.Now.
	Now func() time.Time
}

// Service loads, mutates and saves board documents.
type Service struct {
	store   store.Store
	limit   int
	logger  *log.Logger
	metrics layout.Metrics
	now     func() time.Time

	mu sync.Mutex // serializes read-modify-write cycles
}

// New returns a service over s.
func New(s store.Store, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics.MinTaskWidth <= 0 {
		opts.Metrics = layout.DefaultMetrics()
	}
	return &Service{
		store:   s,
		limit:   opts.HistoryLimit,
		logger:  opts.Logger.With("svc", "service"),
		metrics: opts.Metrics,
		now:     opts.Now,
	}
}

// Create stores a new starter board. An empty id gets a generated one.
func (s *Service) Create(ctx context.Context, id string) (*store.Document, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(ctx, id); err == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "board %q already exists", id)
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}
	return s.create(ctx, id, board.New(s.now()))
}

func (s *Service) create(ctx context.Context, id string, b *board.Board) (*store.Document, error) {
	doc := &store.Document{
		ID:        id,
		Board:     b,
		History:   history.New[*board.Board](s.limit),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("created board", "board", id)
	return doc, nil
}

// Get returns a stored document.
func (s *Service) Get(ctx context.Context, id string) (*store.Document, error) {
	return s.store.Get(ctx, id)
}

// Open returns the document with the given id, creating a starter board when
// it does not exist yet.
func (s *Service) Open(ctx context.Context, id string) (*store.Document, error) {
	doc, err := s.store.Get(ctx, id)
	if err == nil || !errors.Is(err, errors.ErrCodeNotFound) {
		return doc, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have created the board since the first lookup.
	doc, err = s.store.Get(ctx, id)
	if err == nil || !errors.Is(err, errors.ErrCodeNotFound) {
		return doc, err
	}
	return s.create(ctx, id, board.New(s.now()))
}

// List returns summaries of all stored boards.
func (s *Service) List(ctx context.Context) ([]store.Summary, error) {
	return s.store.List(ctx)
}

// Delete removes a board and its history.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted board", "board", id)
	return nil
}

// Apply runs fn against the board with the given id and saves the result.
// op names the operation for logs and hooks (e.g. "task.place").
func (s *Service) Apply(ctx context.Context, id, op string, fn func(*board.Board) error) (*board.Board, error) {
	start := time.Now()
	b, err := s.apply(ctx, id, fn)
	observability.Board().OnCommit(ctx, id, op, time.Since(start), err)
	if err != nil {
		s.logger.Debug("operation rejected", "board", id, "op", op, "err", err)
		return nil, err
	}
	s.logger.Debug("committed", "board", id, "op", op, "took", time.Since(start))
	return b, nil
}

func (s *Service) apply(ctx context.Context, id string, fn func(*board.Board) error) (*board.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := doc.Board.Clone()
	if err := fn(doc.Board); err != nil {
		return nil, err
	}
	if reflect.DeepEqual(before, doc.Board) {
		return doc.Board, nil
	}
	doc.History.Record(before)
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc.Board, nil
}

// Place drops a task into a lane and commits the resolved row.
func (s *Service) Place(ctx context.Context, id, taskID string, lane layout.LaneID, start, width float64) (layout.Result, error) {
	var res layout.Result
	t0 := time.Now()
	_, err := s.Apply(ctx, id, "task.place", func(b *board.Board) error {
		var err error
		res, err = b.PlaceTask(taskID, lane, start, width)
		return err
	})
	if err == nil {
		observability.Board().OnResolve(ctx, string(lane), res.Row, res.Overlapped, time.Since(t0))
	}
	return res, err
}

// Resize changes a placed task's span and commits the resolved row.
func (s *Service) Resize(ctx context.Context, id, taskID string, start, width float64) (layout.Result, error) {
	var (
		res  layout.Result
		lane layout.LaneID
	)
	t0 := time.Now()
	_, err := s.Apply(ctx, id, "task.resize", func(b *board.Board) error {
		var err error
		res, err = b.ResizeTask(taskID, start, width, s.metrics)
		if err == nil {
			t, _ := b.Task(taskID)
			lane = t.MemberID
		}
		return err
	})
	if err == nil {
		observability.Board().OnResolve(ctx, string(lane), res.Row, res.Overlapped, time.Since(t0))
	}
	return res, err
}

// Preview resolves a prospective placement without saving anything.
func (s *Service) Preview(ctx context.Context, id, taskID string, lane layout.LaneID, start, width float64) (layout.Result, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return layout.Result{}, err
	}
	t0 := time.Now()
	res, err := doc.Board.PreviewPlacement(taskID, lane, start, width)
	if err != nil {
		return layout.Result{}, err
	}
	observability.Board().OnResolve(ctx, string(lane), res.Row, res.Overlapped, time.Since(t0))
	return res, nil
}

// Undo restores the board as it was before the last committed operation.
func (s *Service) Undo(ctx context.Context, id string) (*board.Board, error) {
	return s.travel(ctx, id, "undo", func(h *history.Stack[*board.Board], cur *board.Board) (*board.Board, bool) {
		return h.Undo(cur)
	}, ErrNothingToUndo)
}

// Redo reapplies the last undone operation.
func (s *Service) Redo(ctx context.Context, id string) (*board.Board, error) {
	return s.travel(ctx, id, "redo", func(h *history.Stack[*board.Board], cur *board.Board) (*board.Board, bool) {
		return h.Redo(cur)
	}, ErrNothingToRedo)
}

func (s *Service) travel(ctx context.Context, id, op string, step func(*history.Stack[*board.Board], *board.Board) (*board.Board, bool), empty error) (*board.Board, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx, id)
	if err == nil {
		next, ok := step(doc.History, doc.Board)
		if !ok {
			err = empty
		} else {
			doc.Board = next
			err = s.save(ctx, doc)
		}
	}
	observability.Board().OnCommit(ctx, id, op, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return doc.Board, nil
}

// Import replaces the board with b, keeping the previous board undoable.
// The board is created if it does not exist.
func (s *Service) Import(ctx context.Context, id string, b *board.Board) error {
	if err := b.Verify(); err != nil {
		return err
	}
	replace := func(cur *board.Board) error {
		*cur = *b.Clone()
		return nil
	}
	_, err := s.Apply(ctx, id, "board.import", replace)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		return err
	}

	s.mu.Lock()
	if _, err = s.store.Get(ctx, id); errors.Is(err, errors.ErrCodeNotFound) {
		_, err = s.create(ctx, id, b.Clone())
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	// Created concurrently: replace it like any other board.
	_, err = s.Apply(ctx, id, "board.import", replace)
	return err
}

func (s *Service) load(ctx context.Context, id string) (*store.Document, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Board == nil {
		return nil, errors.New(errors.ErrCodeStorage, "board %q has no content", id)
	}
	if doc.History == nil {
		doc.History = history.New[*board.Board](s.limit)
	}
	doc.History.Limit = s.limit
	return doc, nil
}

func (s *Service) save(ctx context.Context, doc *store.Document) error {
	doc.UpdatedAt = s.now().UTC()
	return s.store.Put(ctx, doc)
}
