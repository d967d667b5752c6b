package board

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
)

// Defaults for new boards and new entities.
const (
	DefaultProjectTitle = "Gantt Chart"
	DefaultPrimaryColor = "#6750A4"
	DefaultSprintColor  = "#B5C4B1"
	DefaultTaskWidth    = 171.5
	DefaultSprintDays   = 14

	dateLayout = "2006-01-02"
)

// Sprint is a time-boxed board column.
type Sprint struct {
	ID        string `json:"id" bson:"id"`
	Title     string `json:"title" bson:"title"`
	StartDate string `json:"startDate" bson:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"endDate" bson:"end_date"`     // YYYY-MM-DD
	Color     string `json:"color" bson:"color"`
	Order     int    `json:"order" bson:"order"`
}

// Member owns a lane. The member id doubles as the lane id.
type Member struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Order int    `json:"order" bson:"order"`
}

// Lane returns the lane identifier of the member.
func (m Member) Lane() layout.LaneID { return layout.LaneID(m.ID) }

// Task is a card on the board.
type Task struct {
	ID              string        `json:"id" bson:"id"`
	Title           string        `json:"title" bson:"title"`
	MemberID        layout.LaneID `json:"memberId" bson:"member_id"` // empty in the holding area
	StartX          float64       `json:"startX" bson:"start_x"`
	Width           float64       `json:"width" bson:"width"`
	RowIndex        int           `json:"rowIndex" bson:"row_index"`
	StorageOrder    int           `json:"storageOrder,omitempty" bson:"storage_order,omitempty"`
	BackgroundColor string        `json:"backgroundColor,omitempty" bson:"background_color,omitempty"`
}

// Placed reports whether the task sits in a member lane.
func (t Task) Placed() bool { return t.MemberID != layout.Unassigned }

// Span returns the horizontal footprint of the task.
func (t Task) Span() layout.Span { return layout.Span{Start: t.StartX, Width: t.Width} }

// Placement returns the stacking view of the task.
func (t Task) Placement() layout.Task {
	return layout.Task{ID: t.ID, Lane: t.MemberID, Span: t.Span(), Row: t.RowIndex}
}

// Board is the whole planning state.
type Board struct {
	ProjectTitle string   `json:"projectTitle" bson:"project_title"`
	PrimaryColor string   `json:"primaryColor" bson:"primary_color"`
	Sprints      []Sprint `json:"sprints" bson:"sprints"`
	Members      []Member `json:"members" bson:"members"`
	Tasks        []Task   `json:"tasks" bson:"tasks"`
}

// New returns the starter board: one two-week sprint beginning on now's date
// and one member, with no tasks.
func New(now time.Time) *Board {
	start := now.Format(dateLayout)
	end := now.AddDate(0, 0, DefaultSprintDays).Format(dateLayout)
	return &Board{
		ProjectTitle: DefaultProjectTitle,
		PrimaryColor: DefaultPrimaryColor,
		Sprints: []Sprint{{
			ID:        newID(),
			Title:     "Sprint 1",
			StartDate: start,
			EndDate:   end,
			Color:     DefaultSprintColor,
			Order:     0,
		}},
		Members: []Member{{ID: newID(), Name: "Member 1", Order: 0}},
		Tasks:   []Task{},
	}
}

// Reset replaces the board contents with the starter board.
func (b *Board) Reset(now time.Time) {
	*b = *New(now)
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	c.Sprints = slices.Clone(b.Sprints)
	c.Members = slices.Clone(b.Members)
	c.Tasks = slices.Clone(b.Tasks)
	return &c
}

// SetTitle updates the project title.
func (b *Board) SetTitle(title string) error {
	if err := errors.ValidateName(title); err != nil {
		return err
	}
	b.ProjectTitle = title
	return nil
}

// SetPrimaryColor updates the board accent colour.
func (b *Board) SetPrimaryColor(color string) error {
	if err := errors.ValidateColor(color); err != nil {
		return err
	}
	b.PrimaryColor = color
	return nil
}

// Placements returns the stacking view of every task.
func (b *Board) Placements() []layout.Task {
	out := make([]layout.Task, len(b.Tasks))
	for i, t := range b.Tasks {
		out[i] = t.Placement()
	}
	return out
}

// Verify checks that every placed task belongs to an existing member and that
// no two overlapping tasks share a row.
func (b *Board) Verify() error {
	for _, t := range b.Tasks {
		if t.Placed() && b.memberIndex(string(t.MemberID)) < 0 {
			return errors.New(errors.ErrCodeInvalidLane, "task %q is placed in unknown member %q", t.ID, t.MemberID)
		}
	}
	return layout.Verify(b.Placements())
}

// newID is swapped in tests that need stable identifiers.
var newID = uuid.NewString

func byOrder[T any](items []T, order func(T) int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int { return cmp.Compare(order(a), order(b)) })
	return out
}
