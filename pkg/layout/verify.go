package layout

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/sprintboard/pkg/errors"
)

// Conflict names two tasks that share a lane and a row while overlapping.
type Conflict struct {
	Lane LaneID
	Row  int
	A, B string
}

// Conflicts returns every pair of tasks that breaks the stacking invariant,
// ordered by lane, row and task ids.
func Conflicts(tasks []Task) []Conflict {
	type key struct {
		lane LaneID
		row  int
	}
	groups := make(map[key][]Task)
	for _, t := range tasks {
		if !t.Placed() {
			continue
		}
		k := key{t.Lane, max(t.Row, 0)}
		groups[k] = append(groups[k], t)
	}

	var out []Conflict
	for k, group := range groups {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if !group[i].Span.Overlaps(group[j].Span) {
					continue
				}
				a, b := group[i].ID, group[j].ID
				if b < a {
					a, b = b, a
				}
				out = append(out, Conflict{Lane: k.lane, Row: k.row, A: a, B: b})
			}
		}
	}
	slices.SortFunc(out, func(x, y Conflict) int {
		return cmp.Or(
			cmp.Compare(x.Lane, y.Lane),
			cmp.Compare(x.Row, y.Row),
			cmp.Compare(x.A, y.A),
			cmp.Compare(x.B, y.B),
		)
	})
	return out
}

// Verify returns a LAYOUT_CONFLICT error listing the first few conflicts, or nil.
func Verify(tasks []Task) error {
	conflicts := Conflicts(tasks)
	if len(conflicts) == 0 {
		return nil
	}
	const shown = 3
	var parts []string
	for i, c := range conflicts {
		if i == shown {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, string(c.Lane)+"/"+c.A+"~"+c.B)
	}
	return errors.New(errors.ErrCodeLayoutConflict, "%d overlapping task pair(s) share a row: %s",
		len(conflicts), strings.Join(parts, ", "))
}

// Settle repairs the rows of a task set that may break the stacking invariant,
// typically after a bulk import. It returns a new slice in the same order.
//
// Placed tasks are visited lane by lane in (row, start, id) order. A task keeps
// its row when it fits among the tasks already visited; otherwise it is moved to
// the lowest free row among them. A set that already satisfies the invariant is
// returned unchanged, gaps included. Holding-area tasks are copied as-is.
func Settle(tasks []Task) []Task {
	out := slices.Clone(tasks)

	order := make([]int, 0, len(out))
	for i, t := range out {
		if t.Placed() {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(i, j int) int {
		a, b := out[i], out[j]
		return cmp.Or(
			cmp.Compare(a.Lane, b.Lane),
			cmp.Compare(max(a.Row, 0), max(b.Row, 0)),
			cmp.Compare(a.Span.Start, b.Span.Start),
			cmp.Compare(a.ID, b.ID),
		)
	})

	settled := make(map[LaneID][]Task)
	for _, i := range order {
		t := out[i]
		t.Row = max(t.Row, 0)
		siblings := settled[t.Lane]
		if blocked(layersOf(siblings, t.Lane, "")[t.Row], t.Span) {
			t.Row = resolve(siblings, t.Lane, t.Span, "").Row
		}
		settled[t.Lane] = append(siblings, t)
		out[i] = t
	}
	return out
}
