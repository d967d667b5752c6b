package cli

import (
	"strings"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
)

// minPrefix is the shortest id prefix accepted as a reference.
const minPrefix = 4

// lookup finds the item a command-line reference points to. A reference is
// an exact id, a case-insensitive name, or a unique id prefix of at least
// minPrefix characters, tried in that order.
func lookup[T any](kind, ref string, items []T, id, name func(T) string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, errors.New(errors.ErrCodeInvalidInput, "%s reference is empty", kind)
	}

	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
	}

	matches := func(pred func(T) bool) []T {
		var out []T
		for _, it := range items {
			if pred(it) {
				out = append(out, it)
			}
		}
		return out
	}

	byName := matches(func(it T) bool { return strings.EqualFold(name(it), ref) })
	if len(byName) == 1 {
		return byName[0], nil
	}
	if len(byName) > 1 {
		return zero, errors.New(errors.ErrCodeInvalidInput, "%d %ss are named %q; use the id", len(byName), kind, ref)
	}

	if len(ref) >= minPrefix {
		byPrefix := matches(func(it T) bool { return strings.HasPrefix(id(it), ref) })
		switch len(byPrefix) {
		case 1:
			return byPrefix[0], nil
		case 0:
		default:
			return zero, errors.New(errors.ErrCodeInvalidInput, "%s prefix %q is ambiguous", kind, ref)
		}
	}
	return zero, errors.NotFound(kind, ref)
}

func findTask(b *board.Board, ref string) (board.Task, error) {
	return lookup("task", ref, b.Tasks,
		func(t board.Task) string { return t.ID },
		func(t board.Task) string { return t.Title })
}

func findMember(b *board.Board, ref string) (board.Member, error) {
	return lookup("member", ref, b.SortedMembers(),
		func(m board.Member) string { return m.ID },
		func(m board.Member) string { return m.Name })
}

func findSprint(b *board.Board, ref string) (board.Sprint, error) {
	return lookup("sprint", ref, b.SortedSprints(),
		func(s board.Sprint) string { return s.ID },
		func(s board.Sprint) string { return s.Title })
}

// shortID abbreviates an id for listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
