package cli

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		debug   bool
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, false, true},
		{"debug at info level", log.InfoLevel, true, false},
		{"debug at debug level", log.DebugLevel, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			if tt.debug {
				logger.Debug("resolved row")
			} else {
				logger.Info("created board")
			}
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsDuration(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Exported 3 tasks")

	out := buf.String()
	if !regexp.MustCompile(`Exported 3 tasks \(\d+(\.\d+)?[µnm]?s\)`).MatchString(out) {
		t.Errorf("unexpected progress line: %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should fall back to log.Default")
	}

	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)
	ctx := withLogger(context.Background(), logger)
	if loggerFromContext(ctx) != logger {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := logHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	hooks.OnResolve(ctx, "lane-1", 2, true, time.Millisecond)
	hooks.OnCommit(ctx, "demo", "task.place", time.Millisecond, nil)
	hooks.OnCommit(ctx, "demo", "task.place", time.Millisecond, errors.New("boom"))
	hooks.OnSave(ctx, "file", "demo", time.Millisecond, nil)
	hooks.OnResponse(ctx, "POST", "/api/boards", 201, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"resolved row", "row=2", "op=task.place", "commit failed", "store save", "status=201"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}
}
