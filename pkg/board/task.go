package board

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
)

// TaskPatch lists the presentational task fields to change; nil fields are left alone.
// Lane and span changes go through PlaceTask and ResizeTask.
type TaskPatch struct {
	Title           *string
	BackgroundColor *string
}

// Task returns the task with the given id.
func (b *Board) Task(id string) (Task, error) {
	i := b.taskIndex(id)
	if i < 0 {
		return Task{}, errors.NotFound("task", id)
	}
	return b.Tasks[i], nil
}

// AddTask creates a task at the end of the holding area.
func (b *Board) AddTask(title string) (Task, error) {
	if title == "" {
		title = fmt.Sprintf("Task %d", len(b.Tasks)+1)
	}
	if err := errors.ValidateName(title); err != nil {
		return Task{}, err
	}
	t := Task{
		ID:           newID(),
		Title:        title,
		MemberID:     layout.Unassigned,
		Width:        DefaultTaskWidth,
		StorageOrder: b.nextStorageOrder(),
	}
	b.Tasks = append(b.Tasks, t)
	return t, nil
}

// UpdateTask applies patch to the task with the given id.
func (b *Board) UpdateTask(id string, patch TaskPatch) (Task, error) {
	i := b.taskIndex(id)
	if i < 0 {
		return Task{}, errors.NotFound("task", id)
	}
	if patch.Title != nil {
		if err := errors.ValidateName(*patch.Title); err != nil {
			return Task{}, err
		}
		b.Tasks[i].Title = *patch.Title
	}
	if patch.BackgroundColor != nil {
		if err := errors.ValidateColor(*patch.BackgroundColor); err != nil {
			return Task{}, err
		}
		b.Tasks[i].BackgroundColor = *patch.BackgroundColor
	}
	return b.Tasks[i], nil
}

// DeleteTask removes a task from the board.
func (b *Board) DeleteTask(id string) error {
	i := b.taskIndex(id)
	if i < 0 {
		return errors.NotFound("task", id)
	}
	b.Tasks = slices.Delete(b.Tasks, i, i+1)
	return nil
}

// HoldingArea returns the unplaced tasks in storage order.
func (b *Board) HoldingArea() []Task {
	var out []Task
	for _, t := range b.Tasks {
		if !t.Placed() {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(x, y Task) int { return cmp.Compare(x.StorageOrder, y.StorageOrder) })
	return out
}

// LaneTasks returns the tasks of one lane ordered by row, then start.
func (b *Board) LaneTasks(lane layout.LaneID) []Task {
	var out []Task
	if lane == layout.Unassigned {
		return out
	}
	for _, t := range b.Tasks {
		if t.MemberID == lane {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(x, y Task) int {
		return cmp.Or(cmp.Compare(x.RowIndex, y.RowIndex), cmp.Compare(x.StartX, y.StartX))
	})
	return out
}

func (b *Board) taskIndex(id string) int {
	return slices.IndexFunc(b.Tasks, func(t Task) bool { return t.ID == id })
}

func (b *Board) nextStorageOrder() int {
	next := 0
	for _, t := range b.Tasks {
		if !t.Placed() {
			next = max(next, t.StorageOrder+1)
		}
	}
	return next
}

// park moves the task at index i to the end of the holding area.
func (b *Board) park(i int) {
	order := b.nextStorageOrder()
	t := &b.Tasks[i]
	t.MemberID = layout.Unassigned
	t.RowIndex = 0
	t.StorageOrder = order
}
