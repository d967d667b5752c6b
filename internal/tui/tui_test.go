package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/layout"
	"github.com/matzehuels/sprintboard/pkg/service"
	"github.com/matzehuels/sprintboard/pkg/store/memory"
)

// setup stores a board with task "a" placed at [0,200) in the only lane and
// task "b" in the holding area, and returns a loaded model.
func setup(t *testing.T) (Model, *service.Service) {
	t.Helper()
	ctx := context.Background()
	svc := service.New(memory.New(memory.StoreConfig{}), service.Options{})
	if _, err := svc.Open(ctx, "tui"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Apply(ctx, "tui", "seed", func(b *board.Board) error {
		a, err := b.AddTask("a")
		if err != nil {
			return err
		}
		if _, err := b.AddTask("b"); err != nil {
			return err
		}
		_, err = b.PlaceTask(a.ID, b.Members[0].Lane(), 0, 200)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	m := New(ctx, svc, "tui", layout.DefaultMetrics())
	return run(t, m, m.Init()), svc
}

// run feeds the message produced by cmd back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func press(m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func taskByTitle(t *testing.T, b *board.Board, title string) board.Task {
	t.Helper()
	for _, task := range b.Tasks {
		if task.Title == title {
			return task
		}
	}
	t.Fatalf("no task %q", title)
	return board.Task{}
}

func TestLoadSelectsFirstTask(t *testing.T) {
	m, _ := setup(t)
	if got := taskByTitle(t, m.board, "a").ID; m.selected != got {
		t.Errorf("selected = %q, want task a (%q)", m.selected, got)
	}
	if !strings.Contains(m.View(), "Holding area (1)") {
		t.Errorf("view missing holding area:\n%s", m.View())
	}
}

func TestDragPreviewsAndCommits(t *testing.T) {
	m, svc := setup(t)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	b := taskByTitle(t, m.board, "b")
	if m.selected != b.ID {
		t.Fatalf("tab selected %q, want b", m.selected)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.ghost == nil {
		t.Fatal("no ghost after moving")
	}
	if m.ghost.Row != 1 || !m.overlap {
		t.Errorf("ghost row = %d overlap = %v, want row 1 stacked under a", m.ghost.Row, m.overlap)
	}
	if !strings.Contains(m.View(), "drop on row 1") {
		t.Errorf("view missing drop hint:\n%s", m.View())
	}

	// Nothing is saved while dragging.
	doc, err := svc.Get(context.Background(), "tui")
	if err != nil {
		t.Fatal(err)
	}
	if taskByTitle(t, doc.Board, "b").Placed() {
		t.Fatal("drag preview was saved")
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)
	placed := taskByTitle(t, m.board, "b")
	if !placed.Placed() || placed.RowIndex != 1 {
		t.Errorf("after enter: %+v, want placed on row 1", placed)
	}
	if m.ghost != nil {
		t.Error("ghost kept after commit")
	}

	m, cmd = press(m, key("z"))
	m = run(t, m, cmd)
	if taskByTitle(t, m.board, "b").Placed() {
		t.Error("undo did not return b to the holding area")
	}
}

func TestResizeClampsToMinimumWidth(t *testing.T) {
	m, _ := setup(t)
	for range 10 {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftLeft})
	}
	if m.ghost == nil {
		t.Fatal("no ghost after resizing")
	}
	if got, want := m.ghost.Span.Width, layout.DefaultMetrics().MinTaskWidth; got != want {
		t.Errorf("width = %v, want %v", got, want)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.ghost != nil {
		t.Error("esc kept the ghost")
	}
}

func TestMoveAcrossLanes(t *testing.T) {
	m, svc := setup(t)
	_, err := svc.Apply(context.Background(), "tui", "member.add", func(b *board.Board) error {
		_, err := b.AddMember("Bob", nil)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	m = run(t, m, m.load(""))

	bob := m.board.SortedMembers()[1]
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.ghost == nil || m.ghost.Lane != bob.Lane() || m.ghost.Row != 0 {
		t.Fatalf("ghost = %+v, want row 0 in Bob's lane", m.ghost)
	}
	// Bottom lane is sticky.
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.ghost.Lane != bob.Lane() {
		t.Errorf("lane = %q, want Bob's", m.ghost.Lane)
	}
}

func TestUnassign(t *testing.T) {
	m, _ := setup(t)
	m, cmd := press(m, key("u"))
	m = run(t, m, cmd)
	if got := len(m.board.HoldingArea()); got != 2 {
		t.Errorf("holding area = %d, want 2", got)
	}
}

func TestQuit(t *testing.T) {
	m, _ := setup(t)
	_, cmd := press(m, key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
