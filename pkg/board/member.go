package board

import (
	"fmt"
	"slices"

	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
)

// SortedMembers returns the members in lane order.
func (b *Board) SortedMembers() []Member {
	return byOrder(b.Members, func(m Member) int { return m.Order })
}

// Member returns the member with the given id.
func (b *Board) Member(id string) (Member, error) {
	i := b.memberIndex(id)
	if i < 0 {
		return Member{}, errors.NotFound("member", id)
	}
	return b.Members[i], nil
}

// AddMember inserts a lane. With after set, the lane goes right below the
// member holding that order (after = -1 inserts at the top); otherwise it is
// appended. An empty name becomes "Member N".
func (b *Board) AddMember(name string, after *int) (Member, error) {
	if name == "" {
		name = fmt.Sprintf("Member %d", len(b.Members)+1)
	}
	if err := errors.ValidateName(name); err != nil {
		return Member{}, err
	}

	sorted := b.SortedMembers()
	pos := len(sorted)
	if after != nil {
		pos = 0
		for i, m := range sorted {
			if m.Order <= *after {
				pos = i + 1
			}
		}
	}
	m := Member{ID: newID(), Name: name}
	sorted = slices.Insert(sorted, pos, m)
	b.Members = renumberMembers(sorted)
	return b.Members[pos], nil
}

// RenameMember changes a member's display name.
func (b *Board) RenameMember(id, name string) error {
	i := b.memberIndex(id)
	if i < 0 {
		return errors.NotFound("member", id)
	}
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	b.Members[i].Name = name
	return nil
}

// MoveMember moves a lane to position index (0 = top), clamped to the board.
func (b *Board) MoveMember(id string, index int) error {
	sorted := b.SortedMembers()
	from := slices.IndexFunc(sorted, func(m Member) bool { return m.ID == id })
	if from < 0 {
		return errors.NotFound("member", id)
	}
	m := sorted[from]
	sorted = slices.Delete(sorted, from, from+1)
	index = min(max(index, 0), len(sorted))
	sorted = slices.Insert(sorted, index, m)
	b.Members = renumberMembers(sorted)
	return nil
}

// DeleteMember removes a lane. Its tasks move to the holding area.
func (b *Board) DeleteMember(id string) error {
	i := b.memberIndex(id)
	if i < 0 {
		return errors.NotFound("member", id)
	}
	lane := layout.LaneID(id)
	for n := range b.Tasks {
		if b.Tasks[n].MemberID == lane {
			b.park(n)
		}
	}
	sorted := b.SortedMembers()
	pos := slices.IndexFunc(sorted, func(m Member) bool { return m.ID == id })
	b.Members = renumberMembers(slices.Delete(sorted, pos, pos+1))
	return nil
}

func (b *Board) memberIndex(id string) int {
	return slices.IndexFunc(b.Members, func(m Member) bool { return m.ID == id })
}

func renumberMembers(sorted []Member) []Member {
	for i := range sorted {
		sorted[i].Order = i
	}
	return sorted
}
