package httplog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/morshed33/xprs-go/pkg/logger"
)

// Logger writes request and error records.
type Logger struct {
	log      *slog.Logger
	fallback io.Writer
}

// Option configures a Logger.
type Option func(*Logger)

// WithFallbackOutput sets where failures inside the logger itself are
// reported. Defaults to os.Stderr.
func WithFallbackOutput(w io.Writer) Option {
	return func(l *Logger) {
		if w != nil {
			l.fallback = w
		}
	}
}

// New creates a Logger on top of log. A nil log discards records.
func New(log *slog.Logger, opts ...Option) *Logger {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	l := &Logger{log: log, fallback: os.Stderr}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogRequest logs rec at logger.LevelHTTP.
func (l *Logger) LogRequest(ctx context.Context, rec RequestRecord) {
	defer l.guard("request", rec.Method+" "+rec.Path)

	attrs := []slog.Attr{
		slog.String("method", rec.Method),
		slog.String("path", rec.Path),
		slog.Int("status", rec.StatusCode),
		logger.Duration(rec.Latency),
		logger.CorrelationID(rec.CorrelationID),
		slog.String("client_ip", rec.ClientIP),
		slog.String("user_agent", rec.UserAgent),
	}
	if len(rec.Query) > 0 {
		attrs = append(attrs, slog.String("query", rec.Query.Encode()))
	}
	if !bodyless(rec.Method) && len(rec.Body) > 0 {
		attrs = append(attrs, bodyAttr(rec.Body))
	}

	msg := fmt.Sprintf("%s %s %d - %.3f ms", rec.Method, rec.Path, rec.StatusCode, float64(rec.Latency.Microseconds())/1000)
	l.log.LogAttrs(ctx, logger.LevelHTTP, msg, attrs...)
}

// LogError logs rec at ERROR. The stack is always included.
func (l *Logger) LogError(ctx context.Context, rec ErrorRecord) {
	defer l.guard("error", rec.Method+" "+rec.Path)

	err := rec.Err
	if err == nil {
		return
	}

	attrs := []slog.Attr{
		slog.Int("status", err.Status()),
		slog.Bool("operational", err.Operational),
		slog.String("message", err.Message),
		slog.String("stack", err.Stack),
		slog.String("method", rec.Method),
		slog.String("path", rec.Path),
		logger.CorrelationID(rec.CorrelationID),
		slog.String("client_ip", rec.ClientIP),
		slog.String("user_agent", rec.UserAgent),
	}
	if len(err.Details) > 0 {
		attrs = append(attrs, slog.Any("details", err.Details))
	}
	if err.Cause != nil {
		attrs = append(attrs, slog.String("cause", err.Cause.Error()))
	}
	if len(rec.Query) > 0 {
		attrs = append(attrs, slog.String("query", rec.Query.Encode()))
	}
	if !bodyless(rec.Method) && len(rec.Body) > 0 {
		attrs = append(attrs, bodyAttr(rec.Body))
	}

	l.log.LogAttrs(ctx, slog.LevelError, err.Message, attrs...)
}

// Logger returns the underlying slog logger.
func (l *Logger) Logger() *slog.Logger {
	return l.log
}

func (l *Logger) guard(kind, what string) {
	if r := recover(); r != nil {
		_, _ = fmt.Fprintf(l.fallback, "%s httplog: %s record for %s dropped: %v\n",
			time.Now().Format(time.RFC3339), kind, what, r)
	}
}

func bodyAttr(body []byte) slog.Attr {
	if json.Valid(body) {
		return slog.Any("body", json.RawMessage(body))
	}
	return slog.String("body", string(body))
}
