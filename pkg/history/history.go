// Package history keeps bounded undo/redo stacks of board snapshots.
//
// A [Stack] stores whole values (mementos) rather than inverse operations:
// before each change the caller records the current value, and Undo hands
// back the previous one. Boards are small, so snapshots stay cheap and the
// stack needs no knowledge of the operations that produced them.
//
// Stacks marshal to JSON so a CLI can keep history between invocations.
package history

// DefaultLimit is the number of undo steps kept when no limit is given.
const DefaultLimit = 50

// Stack is an undo/redo history of values of type T.
//
// The zero value is usable and keeps DefaultLimit steps.
type Stack[T any] struct {
	Past   []T `json:"past"`
	Future []T `json:"future"`
	Limit  int `json:"limit,omitempty"`
}

// New returns an empty stack keeping at most limit undo steps.
// A limit <= 0 selects DefaultLimit.
func New[T any](limit int) *Stack[T] {
	return &Stack[T]{Limit: limit}
}

func (s *Stack[T]) limit() int {
	if s.Limit <= 0 {
		return DefaultLimit
	}
	return s.Limit
}

// Record saves current as the state to return to on the next Undo.
// Recording drops any redo branch.
func (s *Stack[T]) Record(current T) {
	s.Past = append(s.Past, current)
	if over := len(s.Past) - s.limit(); over > 0 {
		s.Past = append(s.Past[:0:0], s.Past[over:]...)
	}
	s.Future = nil
}

// Undo returns the previous state and pushes current onto the redo branch.
// ok is false when there is nothing to undo.
func (s *Stack[T]) Undo(current T) (prev T, ok bool) {
	if len(s.Past) == 0 {
		return prev, false
	}
	n := len(s.Past) - 1
	prev = s.Past[n]
	s.Past = s.Past[:n]
	s.Future = append(s.Future, current)
	return prev, true
}

// Redo returns the state most recently undone and pushes current back onto
// the undo branch. ok is false when there is nothing to redo.
func (s *Stack[T]) Redo(current T) (next T, ok bool) {
	if len(s.Future) == 0 {
		return next, false
	}
	n := len(s.Future) - 1
	next = s.Future[n]
	s.Future = s.Future[:n]
	s.Past = append(s.Past, current)
	return next, true
}

// CanUndo reports whether Undo has a state to return.
func (s *Stack[T]) CanUndo() bool { return len(s.Past) > 0 }

// CanRedo reports whether Redo has a state to return.
func (s *Stack[T]) CanRedo() bool { return len(s.Future) > 0 }

// Len returns the number of undo and redo steps held.
func (s *Stack[T]) Len() (undo, redo int) { return len(s.Past), len(s.Future) }

// Clear drops both branches.
func (s *Stack[T]) Clear() {
	s.Past = nil
	s.Future = nil
}
