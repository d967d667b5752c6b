package layout

import (
	"testing"

	"github.com/matzehuels/sprintboard/pkg/errors"
)

func task(id string, lane LaneID, start, width float64, row int) Task {
	return Task{ID: id, Lane: lane, Span: Span{Start: start, Width: width}, Row: row}
}

func TestResolveRow(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []Task
		lane    LaneID
		span    Span
		exclude string
		want    Result
	}{
		{
			name: "empty lane",
			lane: "a",
			span: Span{Start: 0, Width: 100},
			want: Result{Overlapped: false, Row: 0},
		},
		{
			name:  "touching span reuses row 0",
			tasks: []Task{task("t1", "a", 0, 50, 0)},
			lane:  "a",
			span:  Span{Start: 60, Width: 50},
			want:  Result{Overlapped: false, Row: 0},
		},
		{
			name:  "exactly touching span reuses row 0",
			tasks: []Task{task("t1", "a", 0, 50, 0)},
			lane:  "a",
			span:  Span{Start: 50, Width: 50},
			want:  Result{Overlapped: false, Row: 0},
		},
		{
			name:  "conflict opens row 1",
			tasks: []Task{task("t1", "a", 0, 100, 0)},
			lane:  "a",
			span:  Span{Start: 50, Width: 100},
			want:  Result{Overlapped: true, Row: 1},
		},
		{
			name: "free row 0 preferred over stacked rows",
			tasks: []Task{
				task("t1", "a", 0, 100, 0),
				task("t2", "a", 0, 100, 1),
			},
			lane: "a",
			span: Span{Start: 150, Width: 100},
			want: Result{Overlapped: false, Row: 0},
		},
		{
			name: "first free middle row",
			tasks: []Task{
				task("t1", "a", 0, 100, 0),
				task("t2", "a", 200, 100, 1),
				task("t3", "a", 0, 100, 2),
			},
			lane: "a",
			span: Span{Start: 20, Width: 40},
			want: Result{Overlapped: true, Row: 1},
		},
		{
			name: "gap row is reused",
			tasks: []Task{
				task("t1", "a", 0, 100, 0),
				task("t2", "a", 0, 100, 2),
			},
			lane: "a",
			span: Span{Start: 10, Width: 10},
			want: Result{Overlapped: true, Row: 1},
		},
		{
			name: "all rows blocked opens a new one",
			tasks: []Task{
				task("t1", "a", 0, 100, 0),
				task("t2", "a", 50, 100, 1),
				task("t3", "a", 80, 100, 2),
			},
			lane: "a",
			span: Span{Start: 90, Width: 5},
			want: Result{Overlapped: true, Row: 3},
		},
		{
			name:    "task does not collide with itself",
			tasks:   []Task{task("t1", "a", 0, 50, 0)},
			lane:    "a",
			span:    Span{Start: 10, Width: 50},
			exclude: "t1",
			want:    Result{Overlapped: false, Row: 0},
		},
		{
			name: "other lanes and holding area are ignored",
			tasks: []Task{
				task("t1", "b", 0, 100, 0),
				task("t2", Unassigned, 0, 100, 0),
			},
			lane: "a",
			span: Span{Start: 0, Width: 100},
			want: Result{Overlapped: false, Row: 0},
		},
		{
			name: "fractional offsets",
			tasks: []Task{
				task("t1", "a", 187.5, 187.5, 0),
			},
			lane: "a",
			span: Span{Start: 374.9, Width: 10},
			want: Result{Overlapped: true, Row: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRow(tt.tasks, tt.lane, tt.span, tt.exclude)
			if err != nil {
				t.Fatalf("ResolveRow() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveRowLaneIsolation(t *testing.T) {
	inA := []Task{task("t1", "a", 0, 100, 0)}
	mirrored := append([]Task{
		task("t2", "b", 0, 100, 0),
		task("t3", "b", 0, 100, 1),
		task("t4", Unassigned, 0, 100, 0),
	}, inA...)

	want, err := ResolveRow(inA, "a", Span{Start: 10, Width: 10}, "")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ResolveRow(mirrored, "a", Span{Start: 10, Width: 10}, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("tasks in other lanes changed the result: got %+v, want %+v", got, want)
	}
}

func TestResolveRowIdempotent(t *testing.T) {
	tasks := []Task{
		task("t1", "a", 0, 100, 0),
		task("t2", "a", 40, 100, 1),
		task("t3", "a", 300, 20, 0),
	}
	span := Span{Start: 60, Width: 30}

	first, err := ResolveRow(tasks, "a", span, "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := ResolveRow(tasks, "a", span, "")
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("call %d = %+v, first call = %+v", i, got, first)
		}
	}
}

func TestResolveRowPreconditions(t *testing.T) {
	tests := []struct {
		name string
		lane LaneID
		span Span
		code errors.Code
	}{
		{"unassigned lane", Unassigned, Span{Start: 0, Width: 10}, errors.ErrCodeInvalidLane},
		{"zero width", "a", Span{Start: 0, Width: 0}, errors.ErrCodeInvalidSpan},
		{"negative width", "a", Span{Start: 0, Width: -5}, errors.ErrCodeInvalidSpan},
		{"negative start", "a", Span{Start: -1, Width: 10}, errors.ErrCodeInvalidSpan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveRow(nil, tt.lane, tt.span, "")
			if !errors.Is(err, tt.code) {
				t.Errorf("ResolveRow() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestResolvedRowsKeepInvariant(t *testing.T) {
	spans := []Span{
		{0, 120}, {60, 80}, {100, 40}, {130, 200}, {0, 30}, {310, 10}, {90, 95}, {140, 5},
	}
	var tasks []Task
	for i, s := range spans {
		res, err := ResolveRow(tasks, "a", s, "")
		if err != nil {
			t.Fatal(err)
		}
		tasks = append(tasks, Task{ID: string(rune('a' + i)), Lane: "a", Span: s, Row: res.Row})
	}
	if c := Conflicts(tasks); len(c) != 0 {
		t.Errorf("resolved layout has conflicts: %+v", c)
	}
}

func TestLayerCount(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
		lane  LaneID
		want  int
	}{
		{"empty lane", nil, "a", 0},
		{"single row", []Task{task("t1", "a", 0, 10, 0)}, "a", 1},
		{
			name:  "gap rows count",
			tasks: []Task{task("t1", "a", 0, 10, 0), task("t2", "a", 0, 10, 2)},
			lane:  "a",
			want:  3,
		},
		{
			name:  "only row 2",
			tasks: []Task{task("t1", "a", 0, 10, 2)},
			lane:  "a",
			want:  3,
		},
		{
			name:  "other lanes ignored",
			tasks: []Task{task("t1", "b", 0, 10, 4), task("t2", "a", 0, 10, 0)},
			lane:  "a",
			want:  1,
		},
		{
			name:  "holding area",
			tasks: []Task{task("t1", Unassigned, 0, 10, 3)},
			lane:  Unassigned,
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LayerCount(tt.tasks, tt.lane); got != tt.want {
				t.Errorf("LayerCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{0, 10}, Span{20, 10}, false},
		{"touching", Span{0, 10}, Span{10, 10}, false},
		{"overlapping", Span{0, 10}, Span{9, 10}, true},
		{"contained", Span{0, 100}, Span{10, 10}, true},
		{"identical", Span{5, 5}, Span{5, 5}, true},
		{"zero width", Span{5, 0}, Span{0, 10}, false},
		{"negative width", Span{5, -3}, Span{0, 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}
