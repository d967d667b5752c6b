package render

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/layout"
)

func sample(t *testing.T) (*board.Board, []string) {
	t.Helper()
	b := board.New(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	lane := b.Members[0].Lane()
	var ids []string
	for _, title := range []string{"design", "build", "later"} {
		task, err := b.AddTask(title)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, task.ID)
	}
	if _, err := b.PlaceTask(ids[0], lane, 0, 187.5); err != nil {
		t.Fatal(err)
	}
	if _, err := b.PlaceTask(ids[1], lane, 100, 187.5); err != nil {
		t.Fatal(err)
	}
	return b, ids
}

func TestBoardPlain(t *testing.T) {
	b, _ := sample(t)
	got := Board(b, Options{})

	label := func(s string) string { return s + strings.Repeat(" ", 12-len(s)) + "|" }
	rule := strings.Repeat(" ", 12) + "+" + strings.Repeat("-", 24)
	want := strings.Join([]string{
		"Gantt Chart",
		"",
		strings.Repeat(" ", 13) + "Sprint 1",
		strings.Repeat(" ", 13) + "01/06-01/20",
		rule,
		label("Member 1") + "[design" + strings.Repeat(" ", 8) + "]",
		label("") + strings.Repeat(" ", 8) + "[build" + strings.Repeat(" ", 9) + "]",
		rule,
		"",
		"Holding area (1)",
		"  - later",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Board() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBoardEmptyLaneGetsOneRow(t *testing.T) {
	b := board.New(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	got := Board(b, Options{HideHolding: true})
	if n := strings.Count(got, "Member 1"); n != 1 {
		t.Fatalf("lane drawn %d times:\n%s", n, got)
	}
	if strings.Contains(got, "Holding area") {
		t.Error("HideHolding ignored")
	}
}

func TestBoardGhost(t *testing.T) {
	b, ids := sample(t)
	lane := b.Members[0].Lane()
	got := Board(b, Options{
		HideHolding: true,
		Ghost: &Ghost{
			TaskID: ids[2],
			Lane:   lane,
			Span:   layout.Span{Start: 0, Width: 187.5},
			Row:    2,
		},
	})
	lines := strings.Split(got, "\n")
	// title, blank, two header lines, rule, then three lane rows.
	if !strings.Contains(lines[7], "[later") {
		t.Errorf("ghost not on third row:\n%s", got)
	}
}

func TestCardText(t *testing.T) {
	tests := []struct {
		title string
		n     int
		want  string
	}{
		{"design", 0, ""},
		{"design", 1, "#"},
		{"design", 2, "[]"},
		{"design", 5, "[de~]"},
		{"design", 10, "[design  ]"},
	}
	for _, tt := range tests {
		if got := cardText(tt.title, tt.n); got != tt.want {
			t.Errorf("cardText(%q, %d) = %q, want %q", tt.title, tt.n, got, tt.want)
		}
	}
}

func TestColorAddsStyling(t *testing.T) {
	b, ids := sample(t)
	plain := Board(b, Options{Selected: ids[0]})
	if !strings.Contains(plain, "[design") {
		t.Fatalf("plain output lost the card:\n%s", plain)
	}
	// Styling must never drop content.
	colored := Board(b, Options{Color: true, Selected: ids[0]})
	if !strings.Contains(colored, "design") || !strings.Contains(colored, "later") {
		t.Errorf("colored output lost content:\n%s", colored)
	}
}
