// Package layout stacks free-form tasks inside member lanes.
//
// A board places tasks by pixel offset rather than by calendar cell, so two
// tasks in the same lane can overlap horizontally. This package decides which
// vertical stacking row each task occupies so that overlapping tasks never
// render on top of each other.
//
// # Model
//
// Every [Task] has a lane, a horizontal [Span] and a stacking row. A span is
// the half-open interval [Start, Start+Width): a task ending exactly where
// another begins does not overlap it. Tasks in the [Unassigned] lane sit in the
// holding area and take no part in stacking.
//
// The package enforces one invariant: within a real lane, two tasks that share
// a row never overlap. [Verify] and [Conflicts] check it over a whole board.
//
// # Resolving rows
//
// [ResolveRow] is called whenever a task is created, dragged, dropped or
// resized. It looks at the other tasks in the target lane, groups them by row
// and returns the lowest row where the proposed span fits, opening a new row
// when every existing one is blocked:
//
//	res, err := layout.ResolveRow(tasks, "alice", layout.Span{Start: 50, Width: 100}, "t1")
//	if err != nil {
//	    return err // negative start, non-positive width or unassigned lane
//	}
//	task.Row = res.Row
//
// Rows are never compacted: a lane whose only task sits on row 2 still reports
// three layers from [LayerCount], and a later task can fill rows 0 and 1.
//
// # Concurrency
//
// All functions are pure and keep no state between calls. They may be called
// concurrently as long as the caller does not mutate the task slice while a
// call is in progress.
package layout
