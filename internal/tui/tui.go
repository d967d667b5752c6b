// Package tui is the interactive terminal board.
//
// The keyboard stands in for the mouse: arrows drag the selected task across
// sprints and lanes, shift+arrows resize it, and every step resolves the row
// the card would land on so the ghost card shows the final stacking before
// anything is saved. Enter commits the drag through the service.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
	"github.com/matzehuels/sprintboard/pkg/render"
	"github.com/matzehuels/sprintboard/pkg/service"
)

// Steps per sprint column for moving and resizing with the keyboard.
const stepsPerSprint = 4

var (
	styleStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleHelp   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// =============================================================================
// Messages
// =============================================================================

// loadedMsg carries a fresh copy of the board.
type loadedMsg struct {
	board  *board.Board
	status string
}

type errMsg struct{ err error }

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model of one board.
type Model struct {
	ctx     context.Context
	svc     *service.Service
	boardID string
	metrics layout.Metrics

	board    *board.Board
	selected string       // task id
	ghost    *render.Ghost // drag in progress
	overlap  bool

	status string
	err    error
}

// New returns a model for the board with the given id.
func New(ctx context.Context, svc *service.Service, boardID string, metrics layout.Metrics) Model {
	if metrics.SprintWidth <= 0 {
		metrics = layout.DefaultMetrics()
	}
	return Model{ctx: ctx, svc: svc, boardID: boardID, metrics: metrics}
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, svc *service.Service, boardID string, metrics layout.Metrics) error {
	p := tea.NewProgram(New(ctx, svc, boardID, metrics), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.load("")
}

func (m Model) load(status string) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.svc.Open(m.ctx, m.boardID)
		if err != nil {
			return errMsg{err}
		}
		return loadedMsg{board: doc.Board, status: status}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.board = msg.board
		m.status, m.err = msg.status, nil
		m.ghost = nil
		if _, err := m.board.Task(m.selected); err != nil {
			m.selected = ""
			if order := m.order(); len(order) > 0 {
				m.selected = order[0]
			}
		}
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	if m.board == nil {
		return m, nil
	}

	step := m.metrics.SprintWidth / stepsPerSprint
	switch msg.String() {
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "esc":
		m.ghost, m.err = nil, nil
		m.status = "drag cancelled"
	case "left", "h":
		m.drag(func(g *render.Ghost) { g.Span.Start = max(0, g.Span.Start-step) })
	case "right", "l":
		m.drag(func(g *render.Ghost) { g.Span.Start += step })
	case "up", "k":
		m.drag(func(g *render.Ghost) { g.Lane = m.neighbourLane(g.Lane, -1) })
	case "down", "j":
		m.drag(func(g *render.Ghost) { g.Lane = m.neighbourLane(g.Lane, 1) })
	case "shift+left", "H":
		m.drag(func(g *render.Ghost) { g.Span.Width = m.metrics.ClampWidth(g.Span.Width - step) })
	case "shift+right", "L":
		m.drag(func(g *render.Ghost) { g.Span.Width += step })
	case "enter":
		return m, m.commit()
	case "u":
		return m, m.apply("task.unassign", "moved to holding area", func(b *board.Board) error {
			return b.UnassignTask(m.selected)
		})
	case "ctrl+z", "z":
		return m, m.travel(m.svc.Undo, "undone")
	case "ctrl+y", "y":
		return m, m.travel(m.svc.Redo, "redone")
	}
	return m, nil
}

// order lists task ids in display order: lanes top to bottom, then the
// holding area.
func (m Model) order() []string {
	var ids []string
	for _, mem := range m.board.SortedMembers() {
		for _, t := range m.board.LaneTasks(mem.Lane()) {
			ids = append(ids, t.ID)
		}
	}
	for _, t := range m.board.HoldingArea() {
		ids = append(ids, t.ID)
	}
	return ids
}

func (m *Model) cycle(dir int) {
	order := m.order()
	if len(order) == 0 {
		return
	}
	i := 0
	for n, id := range order {
		if id == m.selected {
			i = (n + dir + len(order)) % len(order)
			break
		}
	}
	m.selected = order[i]
	m.ghost = nil
	m.status, m.err = "", nil
}

// neighbourLane returns the lane dir steps away from lane, staying on the board.
func (m Model) neighbourLane(lane layout.LaneID, dir int) layout.LaneID {
	members := m.board.SortedMembers()
	for i, mem := range members {
		if mem.Lane() == lane {
			i = min(max(i+dir, 0), len(members)-1)
			return members[i].Lane()
		}
	}
	return lane
}

// drag starts a drag on the selected task if needed, applies move, and
// resolves the row the ghost would land on.
func (m *Model) drag(move func(*render.Ghost)) {
	if m.ghost == nil && !m.startDrag() {
		return
	}
	g := *m.ghost
	move(&g)
	res, err := m.board.PreviewPlacement(g.TaskID, g.Lane, g.Span.Start, g.Span.Width)
	if err != nil {
		m.err = err
		return
	}
	g.Row = res.Row
	m.ghost, m.overlap, m.err = &g, res.Overlapped, nil
	m.status = ""
}

func (m *Model) startDrag() bool {
	t, err := m.board.Task(m.selected)
	if err != nil {
		return false
	}
	members := m.board.SortedMembers()
	if len(members) == 0 {
		m.err = errors.New(errors.ErrCodeInvalidLane, "add a member before placing tasks")
		return false
	}
	g := render.Ghost{TaskID: t.ID, Lane: t.MemberID, Span: t.Span(), Row: t.RowIndex}
	if !t.Placed() {
		g.Lane, g.Span.Start, g.Row = members[0].Lane(), 0, 0
	}
	m.ghost = &g
	return true
}

// commit places the dragged task where the ghost is.
func (m Model) commit() tea.Cmd {
	if m.ghost == nil {
		return nil
	}
	g := *m.ghost
	return func() tea.Msg {
		res, err := m.svc.Place(m.ctx, m.boardID, g.TaskID, g.Lane, g.Span.Start, g.Span.Width)
		if err != nil {
			return errMsg{err}
		}
		status := fmt.Sprintf("placed on row %d", res.Row)
		if res.Overlapped {
			status += " (stacked)"
		}
		return m.load(status)()
	}
}

func (m Model) apply(op, status string, fn func(*board.Board) error) tea.Cmd {
	if m.selected == "" {
		return nil
	}
	return func() tea.Msg {
		if _, err := m.svc.Apply(m.ctx, m.boardID, op, fn); err != nil {
			return errMsg{err}
		}
		return m.load(status)()
	}
}

func (m Model) travel(step func(context.Context, string) (*board.Board, error), status string) tea.Cmd {
	return func() tea.Msg {
		if _, err := step(m.ctx, m.boardID); err != nil {
			return errMsg{err}
		}
		return m.load(status)()
	}
}

func (m Model) View() string {
	if m.board == nil {
		if m.err != nil {
			return styleError.Render("error: "+errors.UserMessage(m.err)) + "\n"
		}
		return "loading...\n"
	}

	var sb strings.Builder
	sb.WriteString(render.Board(m.board, render.Options{
		Metrics:  m.metrics,
		Color:    true,
		Selected: m.selected,
		Ghost:    m.ghost,
	}))
	sb.WriteString("\n")

	switch {
	case m.err != nil:
		sb.WriteString(styleError.Render(errors.UserMessage(m.err)))
	case m.ghost != nil:
		line := fmt.Sprintf("drop on row %d at %g, width %g", m.ghost.Row, m.ghost.Span.Start, m.ghost.Span.Width)
		if m.overlap {
			line += " (stacked)"
		}
		sb.WriteString(styleStatus.Render(line))
	default:
		sb.WriteString(styleStatus.Render(m.status))
	}
	sb.WriteString("\n")
	sb.WriteString(styleHelp.Render("tab select  ←/→ move  ↑/↓ lane  shift+←/→ resize  ⏎ drop  esc cancel  u unassign  z/y undo/redo  q quit"))
	sb.WriteString("\n")
	return sb.String()
}
