package render

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/layout"
)

// Defaults for Options.
const (
	DefaultCellWidth  = 16
	DefaultLabelWidth = 12
)

// Ghost is an uncommitted card drawn on top of the board, such as the
// position of a task being dragged.
type Ghost struct {
	TaskID string
	Lane   layout.LaneID
	Span   layout.Span
	Row    int
}

// Options controls board rendering.
type Options struct {
	Metrics     layout.Metrics
	CellWidth   int    // characters per sprint column
	LabelWidth  int    // characters for member names
	Color       bool   // emit lipgloss styling
	Selected    string // task id drawn reversed
	Ghost       *Ghost
	HideHolding bool
}

func (o *Options) defaults() {
	if o.Metrics.SprintWidth <= 0 {
		o.Metrics = layout.DefaultMetrics()
	}
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.LabelWidth <= 0 {
		o.LabelWidth = DefaultLabelWidth
	}
}

var (
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleDates    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	styleRule     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleSelected = lipgloss.NewStyle().Reverse(true)
	styleGhost    = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Faint(true)
)

// Board renders b as text.
func Board(b *board.Board, opts Options) string {
	opts.defaults()
	r := renderer{b: b, opts: opts}
	return r.render()
}

type renderer struct {
	b    *board.Board
	opts Options
	sb   strings.Builder
}

func (r *renderer) paint(s lipgloss.Style, text string) string {
	if !r.opts.Color {
		return text
	}
	return s.Render(text)
}

// col maps a pixel offset to a character column.
func (r *renderer) col(x float64) int {
	return int(math.Floor(x / r.opts.Metrics.SprintWidth * float64(r.opts.CellWidth)))
}

func (r *renderer) width() int {
	w := len(r.b.Sprints) * r.opts.CellWidth
	for _, t := range r.b.Tasks {
		if t.Placed() {
			w = max(w, r.col(t.StartX+t.Width))
		}
	}
	if g := r.opts.Ghost; g != nil {
		w = max(w, r.col(g.Span.End()))
	}
	return max(w, r.opts.CellWidth)
}

func (r *renderer) render() string {
	width := r.width()
	r.title()
	r.header(width)
	rule := r.paint(styleRule, strings.Repeat(" ", r.opts.LabelWidth)+"+"+strings.Repeat("-", width))
	r.sb.WriteString(rule + "\n")
	for _, m := range r.b.SortedMembers() {
		r.lane(m, width)
		r.sb.WriteString(rule + "\n")
	}
	if !r.opts.HideHolding {
		r.holding()
	}
	return r.sb.String()
}

func (r *renderer) title() {
	color := r.b.PrimaryColor
	style := styleHeader
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}
	r.sb.WriteString(r.paint(style, r.b.ProjectTitle) + "\n\n")
}

func (r *renderer) header(width int) {
	titles := []rune(strings.Repeat(" ", width))
	dates := []rune(strings.Repeat(" ", width))
	for i, s := range r.b.SortedSprints() {
		at := i * r.opts.CellWidth
		put(titles, at, fit(s.Title, r.opts.CellWidth-1))
		put(dates, at, fit(shortDate(s.StartDate)+"-"+shortDate(s.EndDate), r.opts.CellWidth-1))
	}
	pad := strings.Repeat(" ", r.opts.LabelWidth+1)
	r.sb.WriteString(pad + r.paint(styleHeader, strings.TrimRight(string(titles), " ")) + "\n")
	r.sb.WriteString(pad + r.paint(styleDates, strings.TrimRight(string(dates), " ")) + "\n")
}

// cell is one drawn card on a lane row.
type cell struct {
	from, to int // character columns, half-open
	text     string
	style    lipgloss.Style
}

func (r *renderer) lane(m board.Member, width int) {
	lane := m.Lane()
	rows := max(r.b.LayerCount(lane), 1)
	if g := r.opts.Ghost; g != nil && g.Lane == lane {
		rows = max(rows, g.Row+1)
	}
	cells := make([][]cell, rows)
	for _, t := range r.b.LaneTasks(lane) {
		if g := r.opts.Ghost; g != nil && g.TaskID == t.ID {
			continue
		}
		style := r.cardStyle(t)
		if t.ID == r.opts.Selected {
			style = style.Inherit(styleSelected)
		}
		cells[max(t.RowIndex, 0)] = append(cells[max(t.RowIndex, 0)], r.card(t.Span(), t.Title, style))
	}
	if g := r.opts.Ghost; g != nil && g.Lane == lane {
		title := "?"
		if t, err := r.b.Task(g.TaskID); err == nil {
			title = t.Title
		}
		cells[g.Row] = append(cells[g.Row], r.card(g.Span, title, styleGhost))
	}

	for row, line := range cells {
		label := ""
		if row == 0 {
			label = fit(m.Name, r.opts.LabelWidth-1)
		}
		r.sb.WriteString(r.paint(styleLabel, fmt.Sprintf("%-*s", r.opts.LabelWidth, label)) + "|")
		r.sb.WriteString(strings.TrimRight(r.row(line, width), " ") + "\n")
	}
}

func (r *renderer) card(s layout.Span, title string, style lipgloss.Style) cell {
	from := r.col(s.Start)
	to := max(r.col(s.End()), from+1)
	return cell{from: from, to: to, text: cardText(title, to-from), style: style}
}

func (r *renderer) cardStyle(t board.Task) lipgloss.Style {
	color := t.BackgroundColor
	if color == "" {
		color = r.b.PrimaryColor
	}
	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Background(lipgloss.Color(color)).Foreground(lipgloss.Color("255"))
	}
	return style
}

// row draws the cards of one stacking row left to right. Where scaled columns
// collide, the card further left keeps them.
func (r *renderer) row(cells []cell, width int) string {
	var out strings.Builder
	pos := 0
	for _, c := range sortCells(cells) {
		from := max(c.from, pos)
		if from >= c.to {
			continue
		}
		out.WriteString(strings.Repeat(" ", from-pos))
		text := []rune(c.text)[from-c.from:]
		out.WriteString(r.paint(c.style, string(text)))
		pos = c.to
	}
	if pos < width {
		out.WriteString(strings.Repeat(" ", width-pos))
	}
	return out.String()
}

func (r *renderer) holding() {
	parked := r.b.HoldingArea()
	r.sb.WriteString("\n" + r.paint(styleHeader, fmt.Sprintf("Holding area (%d)", len(parked))) + "\n")
	for _, t := range parked {
		line := "  - " + t.Title
		style := r.cardStyle(t)
		if t.ID == r.opts.Selected {
			style = style.Inherit(styleSelected)
			line = "  > " + t.Title
		}
		r.sb.WriteString(r.paint(style, line) + "\n")
	}
}

// cardText draws a title as a bracketed card exactly n runes wide.
func cardText(title string, n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "#"
	case n == 2:
		return "[]"
	}
	inner := fit(title, n-2)
	return "[" + inner + strings.Repeat(" ", n-2-len([]rune(inner))) + "]"
}

// fit truncates s to n runes, marking the cut with "~".
func fit(s string, n int) string {
	rs := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(rs) <= n {
		return s
	}
	if n == 1 {
		return "~"
	}
	return string(rs[:n-1]) + "~"
}

func put(dst []rune, at int, s string) {
	for i, c := range []rune(s) {
		if at+i < len(dst) {
			dst[at+i] = c
		}
	}
}

// shortDate turns YYYY-MM-DD into MM/DD.
func shortDate(d string) string {
	if len(d) != 10 {
		return d
	}
	return d[5:7] + "/" + d[8:10]
}

func sortCells(cells []cell) []cell {
	out := slices.Clone(cells)
	slices.SortStableFunc(out, func(a, b cell) int { return cmp.Compare(a.from, b.from) })
	return out
}
