package layout

import (
	"github.com/matzehuels/sprintboard/pkg/errors"
)

// ResolveRow returns the stacking row a task with the given span should take in lane.
//
// Tasks outside lane, tasks in the holding area and the task named by excludeID
// (the one being moved or resized) are ignored. The remaining siblings are grouped
// by row and rows are tried from 0 upward; the first row with no overlapping sibling
// wins. When every occupied row is blocked the row after the highest one is returned.
// Overlapped is set whenever the returned row is greater than zero.
//
// ResolveRow fails with INVALID_LANE for the unassigned lane and INVALID_SPAN for a
// negative start or a non-positive width. These are caller bugs; retrying with the
// same input yields the same error.
func ResolveRow(tasks []Task, lane LaneID, span Span, excludeID string) (Result, error) {
	if err := CheckPlacement(lane, span); err != nil {
		return Result{}, err
	}
	return resolve(tasks, lane, span, excludeID), nil
}

// CheckPlacement validates a proposed lane and span.
func CheckPlacement(lane LaneID, span Span) error {
	if lane == Unassigned {
		return errors.New(errors.ErrCodeInvalidLane, "cannot stack tasks in the holding area")
	}
	if span.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidSpan, "width must be positive, got %g", span.Width)
	}
	if span.Start < 0 {
		return errors.New(errors.ErrCodeInvalidSpan, "start must not be negative, got %g", span.Start)
	}
	return nil
}

// resolve is ResolveRow without precondition checks.
func resolve(tasks []Task, lane LaneID, span Span, excludeID string) Result {
	layers := layersOf(tasks, lane, excludeID)
	if len(layers) == 0 {
		return Result{}
	}
	// At most len(siblings) rows are occupied, so a free row turns up before
	// the loop runs past the highest occupied one plus one.
	for row := 0; ; row++ {
		if !blocked(layers[row], span) {
			return Result{Overlapped: row > 0, Row: row}
		}
	}
}

// layersOf groups the spans of lane's tasks by stacking row.
// Rows with no tasks are simply absent from the map.
func layersOf(tasks []Task, lane LaneID, excludeID string) map[int][]Span {
	layers := make(map[int][]Span)
	if lane == Unassigned {
		return layers
	}
	for _, t := range tasks {
		if t.Lane != lane || (excludeID != "" && t.ID == excludeID) {
			continue
		}
		row := max(t.Row, 0)
		layers[row] = append(layers[row], t.Span)
	}
	return layers
}

func blocked(layer []Span, span Span) bool {
	for _, s := range layer {
		if span.Overlaps(s) {
			return true
		}
	}
	return false
}

// LayerCount returns how many stacking rows lane needs: one past its highest
// occupied row, or 0 for a lane without tasks. Empty rows below the highest
// occupied one still count.
func LayerCount(tasks []Task, lane LaneID) int {
	if lane == Unassigned {
		return 0
	}
	n := 0
	for _, t := range tasks {
		if t.Lane == lane {
			n = max(n, max(t.Row, 0)+1)
		}
	}
	return n
}
