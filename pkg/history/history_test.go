package history

import (
	"encoding/json"
	"testing"
)

func TestUndoRedo(t *testing.T) {
	s := New[int](0)
	state := 0
	for _, next := range []int{1, 2, 3} {
		s.Record(state)
		state = next
	}

	var ok bool
	if state, ok = s.Undo(state); !ok || state != 2 {
		t.Fatalf("Undo() = %d, %v; want 2, true", state, ok)
	}
	if state, ok = s.Undo(state); !ok || state != 1 {
		t.Fatalf("Undo() = %d, %v; want 1, true", state, ok)
	}
	if state, ok = s.Redo(state); !ok || state != 2 {
		t.Fatalf("Redo() = %d, %v; want 2, true", state, ok)
	}
	if !s.CanUndo() || !s.CanRedo() {
		t.Error("expected both branches to be non-empty")
	}

	// A new change drops the redo branch.
	s.Record(state)
	state = 10
	if s.CanRedo() {
		t.Error("Record() should clear the redo branch")
	}
	if _, ok := s.Redo(state); ok {
		t.Error("Redo() after Record() should fail")
	}
}

func TestUndoEmpty(t *testing.T) {
	var s Stack[string]
	if v, ok := s.Undo("now"); ok || v != "" {
		t.Errorf("Undo() on empty stack = %q, %v", v, ok)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("empty stack reports history")
	}
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		records int
		want    int
	}{
		{"under limit", 3, 2, 2},
		{"at limit", 3, 3, 3},
		{"over limit", 3, 10, 3},
		{"default limit", 0, DefaultLimit + 5, DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[int](tt.limit)
			for i := 0; i < tt.records; i++ {
				s.Record(i)
			}
			undo, _ := s.Len()
			if undo != tt.want {
				t.Fatalf("Len() undo = %d, want %d", undo, tt.want)
			}
			// The oldest entries are the ones dropped.
			if got := s.Past[0]; got != tt.records-tt.want {
				t.Errorf("oldest kept = %d, want %d", got, tt.records-tt.want)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := New[string](5)
	s.Record("a")
	s.Record("b")
	s.Undo("c")

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var got Stack[string]
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Limit != 5 || len(got.Past) != 1 || len(got.Future) != 1 || got.Future[0] != "c" {
		t.Errorf("round trip = %+v", got)
	}
	if v, ok := got.Undo("b"); !ok || v != "a" {
		t.Errorf("Undo() after reload = %q, %v", v, ok)
	}
}

func TestClear(t *testing.T) {
	s := New[int](0)
	s.Record(1)
	s.Undo(2)
	s.Clear()
	if s.CanUndo() || s.CanRedo() {
		t.Error("Clear() left history behind")
	}
}
