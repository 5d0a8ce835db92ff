package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// SafeHandler guarantees that logging never fails the caller: sink errors are
// swallowed and sink panics are recovered. Failures are reported to a
// fallback writer (stderr by default) instead of the structured pipeline.
type SafeHandler struct {
	next     slog.Handler
	fallback io.Writer
	mu       *sync.Mutex
}

// NewSafeHandler wraps next. A nil fallback means os.Stderr.
func NewSafeHandler(next slog.Handler, fallback io.Writer) *SafeHandler {
	if fallback == nil {
		fallback = os.Stderr
	}
	return &SafeHandler{next: next, fallback: fallback, mu: &sync.Mutex{}}
}

func (h *SafeHandler) Enabled(ctx context.Context, level slog.Level) (enabled bool) {
	defer func() {
		if r := recover(); r != nil {
			enabled = false
		}
	}()
	return h.next.Enabled(ctx, level)
}

// Handle never returns an error.
func (h *SafeHandler) Handle(ctx context.Context, rec slog.Record) error {
	defer func() {
		if r := recover(); r != nil {
			h.report(rec, fmt.Errorf("log sink panic: %v", r))
		}
	}()
	if err := h.next.Handle(ctx, rec); err != nil {
		h.report(rec, err)
	}
	return nil
}

func (h *SafeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SafeHandler{next: h.next.WithAttrs(attrs), fallback: h.fallback, mu: h.mu}
}

func (h *SafeHandler) WithGroup(name string) slog.Handler {
	return &SafeHandler{next: h.next.WithGroup(name), fallback: h.fallback, mu: h.mu}
}

func (h *SafeHandler) report(rec slog.Record, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Best effort: the fallback writer is the last channel left.
	_, _ = fmt.Fprintf(h.fallback, "%s logger failure: %v (dropped %s record %q)\n",
		time.Now().Format(time.RFC3339), err, LevelName(rec.Level), rec.Message)
}
