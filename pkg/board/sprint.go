package board

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/sprintboard/pkg/errors"
)

// SprintPatch lists the sprint fields to change; nil fields are left alone.
type SprintPatch struct {
	Title     *string
	StartDate *string
	EndDate   *string
	Color     *string
}

// SortedSprints returns the sprints in column order.
func (b *Board) SortedSprints() []Sprint {
	return byOrder(b.Sprints, func(s Sprint) int { return s.Order })
}

// Sprint returns the sprint with the given id.
func (b *Board) Sprint(id string) (Sprint, error) {
	i := b.sprintIndex(id)
	if i < 0 {
		return Sprint{}, errors.NotFound("sprint", id)
	}
	return b.Sprints[i], nil
}

// NextSprintWindow proposes dates for a new sprint: the day after the last
// sprint ends, or now when the board has none.
func (b *Board) NextSprintWindow(now time.Time) (start, end string) {
	from := now
	if sorted := b.SortedSprints(); len(sorted) > 0 {
		if last, err := time.Parse(dateLayout, sorted[len(sorted)-1].EndDate); err == nil {
			from = last.AddDate(0, 0, 1)
		}
	}
	return from.Format(dateLayout), from.AddDate(0, 0, DefaultSprintDays).Format(dateLayout)
}

// AddSprint appends a sprint column. An empty title becomes "Sprint N" and an
// empty colour the default sprint colour.
func (b *Board) AddSprint(title, startDate, endDate, color string) (Sprint, error) {
	if title == "" {
		title = fmt.Sprintf("Sprint %d", len(b.Sprints)+1)
	}
	if color == "" {
		color = DefaultSprintColor
	}
	if err := errors.ValidateName(title); err != nil {
		return Sprint{}, err
	}
	if err := errors.ValidateDateRange(startDate, endDate); err != nil {
		return Sprint{}, err
	}
	if err := errors.ValidateColor(color); err != nil {
		return Sprint{}, err
	}

	order := 0
	for _, s := range b.Sprints {
		order = max(order, s.Order+1)
	}
	s := Sprint{ID: newID(), Title: title, StartDate: startDate, EndDate: endDate, Color: color, Order: order}
	b.Sprints = append(b.Sprints, s)
	return s, nil
}

// UpdateSprint applies patch to the sprint with the given id.
func (b *Board) UpdateSprint(id string, patch SprintPatch) (Sprint, error) {
	i := b.sprintIndex(id)
	if i < 0 {
		return Sprint{}, errors.NotFound("sprint", id)
	}
	s := b.Sprints[i]
	if patch.Title != nil {
		if err := errors.ValidateName(*patch.Title); err != nil {
			return Sprint{}, err
		}
		s.Title = *patch.Title
	}
	if patch.StartDate != nil {
		s.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		s.EndDate = *patch.EndDate
	}
	if err := errors.ValidateDateRange(s.StartDate, s.EndDate); err != nil {
		return Sprint{}, err
	}
	if patch.Color != nil {
		if err := errors.ValidateColor(*patch.Color); err != nil {
			return Sprint{}, err
		}
		s.Color = *patch.Color
	}
	b.Sprints[i] = s
	return s, nil
}

// DeleteSprint removes a sprint column and renumbers the remaining ones.
// Tasks keep their pixel positions.
func (b *Board) DeleteSprint(id string) error {
	i := b.sprintIndex(id)
	if i < 0 {
		return errors.NotFound("sprint", id)
	}
	b.Sprints = slices.Delete(b.Sprints, i, i+1)
	for n, s := range b.SortedSprints() {
		b.Sprints[b.sprintIndex(s.ID)].Order = n
	}
	return nil
}

func (b *Board) sprintIndex(id string) int {
	return slices.IndexFunc(b.Sprints, func(s Sprint) bool { return s.ID == id })
}
