// Package render draws boards as text for terminals.
//
// [Board] lays the sprint columns out horizontally and gives every member
// lane as many text rows as it has stacking rows, so the drawing has the same
// shape as the web board: overlapping tasks appear on separate rows, tasks
// that merely touch share one. Pixel offsets are scaled so one sprint column
// becomes [Options.CellWidth] characters.
//
// Colour comes from lipgloss and is optional; with Options.Color unset the
// output is plain text and stable enough for golden comparisons.
package render
