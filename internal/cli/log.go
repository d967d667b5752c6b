// Package cli implements the sprintboard command-line interface.
//
// Commands operate on one board at a time, selected with --board or the
// board setting of the config file. Every mutating command goes through the
// service layer, so it is recorded in the board's undo history and persisted
// in the configured store before the command returns.
//
// # Commands
//
// The main commands are:
//   - init, show, check, relayout: create, draw and repair a board
//   - sprint, member, task: edit the board's columns, lanes and cards
//   - resolve: preview the stacking row of a placement without saving it
//   - undo, redo: walk the board history
//   - export, import: JSON and YAML documents
//   - serve, tui: the HTTP API and the interactive terminal board
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every row resolution, commit and store round trip.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with short wall-clock timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a file operation took, e.g. "Imported 12 tasks (31ms)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey struct{}

// withLogger attaches l to ctx for code that only sees the command context,
// such as the HTTP server.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
