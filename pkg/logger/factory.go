package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/morshed33/xprs-go/pkg/environment"
)

// Format represents logger output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures logger creation.
type Option func(*config)

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets the console output format.
// Panics for unknown formats so misconfiguration fails at startup.
func WithFormat(f Format) Option {
	return func(c *config) {
		switch f {
		case FormatJSON, FormatText:
			c.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the console destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithoutConsole disables the console sink, leaving only extra sinks.
func WithoutConsole() Option {
	return func(c *config) { c.noConsole = true }
}

// WithSinks adds handlers that receive every record alongside the console.
// Each sink applies its own level filter.
func WithSinks(sinks ...slog.Handler) Option {
	return func(c *config) {
		for _, s := range sinks {
			if s != nil {
				c.sinks = append(c.sinks, s)
			}
		}
	}
}

// WithFallbackOutput sets where sink failures are reported. Defaults to os.Stderr.
func WithFallbackOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.fallback = w
		}
	}
}

// WithAttr adds static attributes to every log record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithContextExtractors registers functions that inject attributes from the
// record's context.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithEnvironment applies per-environment defaults: readable text at DEBUG in
// development, JSON down to the HTTP level everywhere else.
func WithEnvironment(env environment.Environment, service string) Option {
	return func(c *config) {
		if env.IsDevelopment() {
			c.level = slog.LevelDebug
			c.format = FormatText
		} else {
			c.level = LevelHTTP
			c.format = FormatJSON
		}
		if service != "" {
			c.attrs = append(c.attrs, slog.String("service", service))
		}
		c.attrs = append(c.attrs, slog.String("env", env.String()))
	}
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

type config struct {
	level      slog.Level
	format     Format
	output     io.Writer
	fallback   io.Writer
	noConsole  bool
	sinks      []slog.Handler
	attrs      []slog.Attr
	extractors []ContextExtractor
}

func defaultConfig() *config {
	return &config{
		level:    slog.LevelInfo,
		format:   FormatJSON,
		output:   os.Stdout,
		fallback: os.Stderr,
	}
}

// New creates a *slog.Logger that writes to the console and any extra sinks.
// The handler chain is: context extractors, then a safe wrapper that never
// lets a sink failure escape, then the fan-out to individual sinks.
func New(opts ...Option) *slog.Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	sinks := make([]slog.Handler, 0, len(cfg.sinks)+1)
	if !cfg.noConsole {
		hopts := &slog.HandlerOptions{Level: cfg.level, ReplaceAttr: replaceLevel}
		if cfg.format == FormatText {
			sinks = append(sinks, slog.NewTextHandler(cfg.output, hopts))
		} else {
			sinks = append(sinks, slog.NewJSONHandler(cfg.output, hopts))
		}
	}
	sinks = append(sinks, cfg.sinks...)

	var handler slog.Handler = NewFanoutHandler(sinks...)
	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}
	handler = NewSafeHandler(handler, cfg.fallback)

	return slog.New(NewLogHandlerDecorator(handler, cfg.extractors...))
}
