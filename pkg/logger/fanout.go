package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// FanoutHandler delivers every record to all sinks that accept its level.
// Each sink applies its own level threshold and format.
type FanoutHandler struct {
	sinks []slog.Handler
}

// NewFanoutHandler creates a handler writing to all non-nil sinks.
func NewFanoutHandler(sinks ...slog.Handler) *FanoutHandler {
	clean := make([]slog.Handler, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			clean = append(clean, s)
		}
	}
	return &FanoutHandler{sinks: clean}
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes to every enabled sink, even when an earlier sink fails or
// panics. Failures are joined into the returned error.
func (h *FanoutHandler) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, rec.Level) {
			continue
		}
		if err := handleSink(ctx, s, rec.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// handleSink turns a sink panic into an error so later sinks still run.
func handleSink(ctx context.Context, s slog.Handler, rec slog.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("log sink panic: %v", r)
		}
	}()
	return s.Handle(ctx, rec)
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		next[i] = s.WithAttrs(attrs)
	}
	return &FanoutHandler{sinks: next}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		next[i] = s.WithGroup(name)
	}
	return &FanoutHandler{sinks: next}
}

// LevelRange limits next to records with min <= level <= max.
func LevelRange(next slog.Handler, min, max slog.Level) slog.Handler {
	return &levelRangeHandler{next: next, min: min, max: max}
}

type levelRangeHandler struct {
	next     slog.Handler
	min, max slog.Level
}

func (h *levelRangeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min && level <= h.max && h.next.Enabled(ctx, level)
}

func (h *levelRangeHandler) Handle(ctx context.Context, rec slog.Record) error {
	return h.next.Handle(ctx, rec)
}

func (h *levelRangeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRangeHandler{next: h.next.WithAttrs(attrs), min: h.min, max: h.max}
}

func (h *levelRangeHandler) WithGroup(name string) slog.Handler {
	return &levelRangeHandler{next: h.next.WithGroup(name), min: h.min, max: h.max}
}
