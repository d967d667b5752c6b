// Package board is the state container for a sprint planning board.
//
// A [Board] holds sprint columns, member lanes and tasks. Tasks are placed by
// pixel offset inside a member's lane, or parked in the holding area when they
// have no member. Every operation that changes a task's lane or span asks
// [layout.ResolveRow] for the task's stacking row and stores it before
// returning, so a board that was valid before a call is valid after it.
//
// Board values are plain data: they serialise to JSON and BSON, and [Board.Clone]
// produces an independent deep copy for undo history. A Board is not safe for
// concurrent mutation; the service layer serialises writes.
package board
