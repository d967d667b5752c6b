package board

import (
	"math"

	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
)

// PreviewPlacement reports where a task would stack if dropped into lane at
// [start, start+width), without changing the board. It is meant for every
// intermediate frame of a drag. taskID may be empty for a card that does not
// exist yet.
func (b *Board) PreviewPlacement(taskID string, lane layout.LaneID, start, width float64) (layout.Result, error) {
	if taskID != "" && b.taskIndex(taskID) < 0 {
		return layout.Result{}, errors.NotFound("task", taskID)
	}
	if err := b.checkLane(lane); err != nil {
		return layout.Result{}, err
	}
	return layout.ResolveRow(b.Placements(), lane, layout.Span{Start: start, Width: width}, taskID)
}

// PlaceTask drops a task into lane at [start, start+width) and commits the
// resolved stacking row. Tasks coming from the holding area lose their
// storage order.
func (b *Board) PlaceTask(taskID string, lane layout.LaneID, start, width float64) (layout.Result, error) {
	i := b.taskIndex(taskID)
	if i < 0 {
		return layout.Result{}, errors.NotFound("task", taskID)
	}
	if err := b.checkLane(lane); err != nil {
		return layout.Result{}, err
	}
	res, err := layout.ResolveRow(b.Placements(), lane, layout.Span{Start: start, Width: width}, taskID)
	if err != nil {
		return layout.Result{}, err
	}
	t := &b.Tasks[i]
	t.MemberID = lane
	t.StartX = start
	t.Width = width
	t.RowIndex = res.Row
	t.StorageOrder = 0
	return res, nil
}

// ResizeTask changes the span of a placed task and restacks it in its lane.
// The start is clamped to 0 and the width to m's minimum task width, as the
// resize handles do.
func (b *Board) ResizeTask(taskID string, start, width float64, m layout.Metrics) (layout.Result, error) {
	i := b.taskIndex(taskID)
	if i < 0 {
		return layout.Result{}, errors.NotFound("task", taskID)
	}
	t := b.Tasks[i]
	if !t.Placed() {
		return layout.Result{}, errors.New(errors.ErrCodeInvalidLane, "task %q is in the holding area and cannot be resized", taskID)
	}
	start = math.Max(0, start)
	width = m.ClampWidth(width)
	return b.PlaceTask(taskID, t.MemberID, start, width)
}

// UnassignTask moves a task back to the end of the holding area.
func (b *Board) UnassignTask(taskID string) error {
	i := b.taskIndex(taskID)
	if i < 0 {
		return errors.NotFound("task", taskID)
	}
	if b.Tasks[i].Placed() {
		b.park(i)
	}
	return nil
}

// Relayout repairs stacking rows so the board satisfies the overlap invariant
// and returns the ids of tasks whose row changed. Placed tasks whose member no
// longer exists are moved to the holding area first.
func (b *Board) Relayout() []string {
	var moved []string
	for i, t := range b.Tasks {
		if t.Placed() && b.memberIndex(string(t.MemberID)) < 0 {
			b.park(i)
			moved = append(moved, t.ID)
		}
	}
	settled := layout.Settle(b.Placements())
	for i, p := range settled {
		if b.Tasks[i].Placed() && b.Tasks[i].RowIndex != p.Row {
			b.Tasks[i].RowIndex = p.Row
			moved = append(moved, p.ID)
		}
	}
	return moved
}

// LayerCount returns how many stacking rows the lane needs.
func (b *Board) LayerCount(lane layout.LaneID) int {
	return layout.LayerCount(b.Placements(), lane)
}

// LaneHeight returns the pixel height of the lane under the given metrics.
func (b *Board) LaneHeight(lane layout.LaneID, m layout.Metrics) float64 {
	return m.LaneHeight(b.LayerCount(lane))
}

func (b *Board) checkLane(lane layout.LaneID) error {
	if lane == layout.Unassigned {
		return errors.New(errors.ErrCodeInvalidLane, "cannot stack tasks in the holding area")
	}
	if b.memberIndex(string(lane)) < 0 {
		return errors.NotFound("member", string(lane))
	}
	return nil
}
