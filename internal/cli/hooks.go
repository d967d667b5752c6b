package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports board, store and HTTP events at debug level. It is
// installed when --verbose is set.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnResolve(_ context.Context, lane string, row int, overlapped bool, d time.Duration) {
	h.logger.Debug("resolved row", "lane", lane, "row", row, "overlapped", overlapped, "took", d)
}

func (h logHooks) OnCommit(_ context.Context, boardID, op string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("commit failed", "board", boardID, "op", op, "err", err)
		return
	}
	h.logger.Debug("commit", "board", boardID, "op", op, "took", d)
}

func (h logHooks) OnLoad(_ context.Context, backend, id string, d time.Duration, err error) {
	h.logger.Debug("store load", "backend", backend, "board", id, "took", d, "err", err)
}

func (h logHooks) OnSave(_ context.Context, backend, id string, d time.Duration, err error) {
	h.logger.Debug("store save", "backend", backend, "board", id, "took", d, "err", err)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}
