package layout

// LaneID identifies a member lane. Lanes are fully independent of each other.
type LaneID string

// Unassigned is the lane of tasks parked in the holding area.
const Unassigned LaneID = ""

// Span is a horizontal footprint in board pixels, covering [Start, Start+Width).
type Span struct {
	Start float64 `json:"start" yaml:"start"`
	Width float64 `json:"width" yaml:"width"`
}

// End returns the exclusive right edge of the span.
func (s Span) End() float64 { return s.Start + s.Width }

// Empty reports whether the span covers no pixels.
func (s Span) Empty() bool { return s.Width <= 0 }

// Overlaps reports whether s and o share at least one pixel.
// Touching spans do not overlap, and an empty span overlaps nothing.
func (s Span) Overlaps(o Span) bool {
	if s.Empty() || o.Empty() {
		return false
	}
	return s.Start < o.End() && o.Start < s.End()
}

// Task is the part of a board task the stacking rules look at.
type Task struct {
	ID   string
	Lane LaneID
	Span Span
	Row  int
}

// Placed reports whether the task sits in a real lane.
func (t Task) Placed() bool { return t.Lane != Unassigned }

// Result is the outcome of resolving a proposed span.
type Result struct {
	// Overlapped is true when the span had to be stacked below row 0.
	Overlapped bool `json:"overlapped"`
	// Row is the lowest free stacking row for the span.
	Row int `json:"row"`
}
