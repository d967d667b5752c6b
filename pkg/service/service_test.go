package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
	"github.com/matzehuels/sprintboard/pkg/observability"
	"github.com/matzehuels/sprintboard/pkg/store"
	"github.com/matzehuels/sprintboard/pkg/store/memory"
)

var testNow = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	t.Helper()
	return New(memory.New(memory.StoreConfig{}), Options{
		HistoryLimit: 5,
		Now:          func() time.Time { return testNow },
	})
}

// seed creates board "b" with two tasks in the holding area and returns the
// lane of its only member and the task ids.
func seed(t *testing.T, s *Service) (layout.LaneID, []string) {
	t.Helper()
	ctx := context.Background()
	doc, err := s.Create(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	_, err = s.Apply(ctx, "b", "task.add", func(b *board.Board) error {
		for _, title := range []string{"design", "build"} {
			task, err := b.AddTask(title)
			if err != nil {
				return err
			}
			ids = append(ids, task.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return doc.Board.Members[0].Lane(), ids
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	doc, err := s.Create(ctx, "q3")
	if err != nil {
		t.Fatal(err)
	}
	if doc.ID != "q3" || !doc.UpdatedAt.Equal(testNow) || len(doc.Board.Members) != 1 {
		t.Errorf("Create() = %+v", doc)
	}
	if _, err := s.Create(ctx, "q3"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate Create() = %v", err)
	}
	if _, err := s.Create(ctx, "a/b"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Create(bad id) = %v", err)
	}

	generated, err := s.Create(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if generated.ID == "" {
		t.Error("Create(\"\") should generate an id")
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("List() = %d boards, want 2", len(list))
	}
}

func TestOpenCreatesOnce(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	first, err := s.Open(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Open(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	if first.Board.Members[0].ID != second.Board.Members[0].ID {
		t.Error("Open() recreated an existing board")
	}
}

// lateStore answers the first lookup with not-found after another writer has
// already created the board, as happens when two callers open a new board at
// the same time.
type lateStore struct {
	store.Store
	title string
	once  sync.Once
}

func (l *lateStore) Get(ctx context.Context, id string) (*store.Document, error) {
	created := false
	l.once.Do(func() {
		b := board.New(testNow)
		b.ProjectTitle = l.title
		created = l.Store.Put(ctx, &store.Document{ID: id, Board: b, UpdatedAt: testNow}) == nil
	})
	if created {
		return nil, store.ErrNotFound
	}
	return l.Store.Get(ctx, id)
}

func TestOpenKeepsConcurrentlyCreatedBoard(t *testing.T) {
	ctx := context.Background()
	s := New(&lateStore{Store: memory.New(memory.StoreConfig{}), title: "Theirs"}, Options{})

	doc, err := s.Open(ctx, "shared")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Board.ProjectTitle != "Theirs" {
		t.Errorf("Open() title = %q, want the existing board", doc.Board.ProjectTitle)
	}
	stored, err := s.Get(ctx, "shared")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Board.ProjectTitle != "Theirs" {
		t.Errorf("stored title = %q, Open() overwrote the board", stored.Board.ProjectTitle)
	}
}

func TestImportOverConcurrentlyCreatedBoard(t *testing.T) {
	ctx := context.Background()
	s := New(&lateStore{Store: memory.New(memory.StoreConfig{}), title: "Theirs"}, Options{})

	b := board.New(testNow)
	b.ProjectTitle = "Mine"
	if err := s.Import(ctx, "shared", b); err != nil {
		t.Fatal(err)
	}
	doc, err := s.Get(ctx, "shared")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Board.ProjectTitle != "Mine" {
		t.Errorf("imported title = %q", doc.Board.ProjectTitle)
	}
	prev, err := s.Undo(ctx, "shared")
	if err != nil {
		t.Fatal(err)
	}
	if prev.ProjectTitle != "Theirs" {
		t.Errorf("Undo() after import = %q, want the concurrently created board", prev.ProjectTitle)
	}
}

func TestPlaceUndoRedo(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	lane, ids := seed(t, s)

	res, err := s.Place(ctx, "b", ids[0], lane, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Row != 0 || res.Overlapped {
		t.Errorf("first Place() = %+v", res)
	}
	res, err = s.Place(ctx, "b", ids[1], lane, 50, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Row != 1 || !res.Overlapped {
		t.Errorf("second Place() = %+v", res)
	}

	b, err := s.Undo(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if task, _ := b.Task(ids[1]); task.Placed() {
		t.Errorf("Undo() left task placed: %+v", task)
	}
	b, err = s.Redo(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if task, _ := b.Task(ids[1]); task.RowIndex != 1 || task.MemberID != lane {
		t.Errorf("Redo() = %+v", task)
	}

	doc, err := s.Get(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.Board.Verify(); err != nil {
		t.Errorf("stored board violates layout: %v", err)
	}
}

func TestFailedOperationDoesNotCommit(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	lane, ids := seed(t, s)

	if _, err := s.Place(ctx, "b", ids[0], lane, 0, 0); !errors.Is(err, errors.ErrCodeInvalidSpan) {
		t.Fatalf("Place(width 0) = %v", err)
	}
	doc, _ := s.Get(ctx, "b")
	undo, _ := doc.History.Len()
	if undo != 1 {
		t.Errorf("history has %d entries, want 1 (task.add only)", undo)
	}
	if task, _ := doc.Board.Task(ids[0]); task.Placed() {
		t.Error("rejected placement was stored")
	}
}

func TestNoopOperationLeavesNoHistory(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	seed(t, s)

	if _, err := s.Apply(ctx, "b", "relayout", func(b *board.Board) error {
		b.Relayout()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	doc, _ := s.Get(ctx, "b")
	if undo, _ := doc.History.Len(); undo != 1 {
		t.Errorf("no-op added history: %d entries", undo)
	}
}

func TestUndoEmpty(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	if _, err := s.Create(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Undo(ctx, "b"); err != ErrNothingToUndo {
		t.Errorf("Undo() = %v, want ErrNothingToUndo", err)
	}
	if _, err := s.Redo(ctx, "b"); err != ErrNothingToRedo {
		t.Errorf("Redo() = %v, want ErrNothingToRedo", err)
	}
}

func TestHistoryLimit(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	if _, err := s.Create(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		if _, err := s.Apply(ctx, "b", "task.add", func(b *board.Board) error {
			_, err := b.AddTask("")
			return err
		}); err != nil {
			t.Fatal(err)
		}
	}
	undos := 0
	for {
		if _, err := s.Undo(ctx, "b"); err != nil {
			break
		}
		undos++
	}
	if undos != 5 {
		t.Errorf("undid %d steps, want 5", undos)
	}
}

func TestPreviewDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	lane, ids := seed(t, s)
	if _, err := s.Place(ctx, "b", ids[0], lane, 0, 100); err != nil {
		t.Fatal(err)
	}

	res, err := s.Preview(ctx, "b", ids[1], lane, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	if res.Row != 1 {
		t.Errorf("Preview() = %+v", res)
	}
	doc, _ := s.Get(ctx, "b")
	if task, _ := doc.Board.Task(ids[1]); task.Placed() {
		t.Error("Preview() moved the task")
	}
}

func TestResize(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	lane, ids := seed(t, s)
	if _, err := s.Place(ctx, "b", ids[0], lane, 0, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Place(ctx, "b", ids[1], lane, 100, 100); err != nil {
		t.Fatal(err)
	}
	res, err := s.Resize(ctx, "b", ids[1], 50, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Row != 1 {
		t.Errorf("Resize() = %+v", res)
	}
}

func TestResizeUsesConfiguredMinWidth(t *testing.T) {
	ctx := context.Background()
	m := layout.DefaultMetrics()
	m.MinTaskWidth = 20
	s := New(memory.New(memory.StoreConfig{}), Options{Metrics: m, Now: func() time.Time { return testNow }})
	lane, ids := seed(t, s)
	if _, err := s.Place(ctx, "b", ids[0], lane, 0, 100); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		width float64
		want  float64
	}{
		{30, 30},
		{5, 20},
	}
	for _, tt := range tests {
		if _, err := s.Resize(ctx, "b", ids[0], 0, tt.width); err != nil {
			t.Fatal(err)
		}
		doc, err := s.Get(ctx, "b")
		if err != nil {
			t.Fatal(err)
		}
		if got, _ := doc.Board.Task(ids[0]); got.Width != tt.want {
			t.Errorf("Resize(width %v) = %v, want %v", tt.width, got.Width, tt.want)
		}
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	b := board.New(testNow)
	b.ProjectTitle = "Imported"
	if err := s.Import(ctx, "fresh", b); err != nil {
		t.Fatal(err)
	}
	doc, err := s.Get(ctx, "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Board.ProjectTitle != "Imported" {
		t.Errorf("imported title = %q", doc.Board.ProjectTitle)
	}

	// Importing over an existing board keeps the old one undoable.
	b2 := board.New(testNow)
	b2.ProjectTitle = "Second"
	if err := s.Import(ctx, "fresh", b2); err != nil {
		t.Fatal(err)
	}
	prev, err := s.Undo(ctx, "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if prev.ProjectTitle != "Imported" {
		t.Errorf("Undo() after import = %q", prev.ProjectTitle)
	}

	broken := board.New(testNow)
	broken.Tasks = []board.Task{{ID: "x", MemberID: "ghost", Width: 10}}
	if err := s.Import(ctx, "fresh", broken); !errors.Is(err, errors.ErrCodeInvalidLane) {
		t.Errorf("Import(broken) = %v", err)
	}
}

type recordingBoardHooks struct {
	observability.NoopBoardHooks
	ops      []string
	resolved []int
}

func (h *recordingBoardHooks) OnCommit(_ context.Context, _, op string, _ time.Duration, _ error) {
	h.ops = append(h.ops, op)
}

func (h *recordingBoardHooks) OnResolve(_ context.Context, _ string, row int, _ bool, _ time.Duration) {
	h.resolved = append(h.resolved, row)
}

func TestHooks(t *testing.T) {
	hooks := &recordingBoardHooks{}
	observability.SetBoardHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	s := newService(t)
	lane, ids := seed(t, s)
	if _, err := s.Place(ctx, "b", ids[0], lane, 0, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Preview(ctx, "b", ids[1], lane, 0, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Undo(ctx, "b"); err != nil {
		t.Fatal(err)
	}

	wantOps := []string{"task.add", "task.place", "undo"}
	if len(hooks.ops) != len(wantOps) {
		t.Fatalf("ops = %v, want %v", hooks.ops, wantOps)
	}
	for i := range wantOps {
		if hooks.ops[i] != wantOps[i] {
			t.Errorf("ops = %v, want %v", hooks.ops, wantOps)
		}
	}
	if len(hooks.resolved) != 2 || hooks.resolved[0] != 0 || hooks.resolved[1] != 1 {
		t.Errorf("resolved rows = %v, want [0 1]", hooks.resolved)
	}
}
