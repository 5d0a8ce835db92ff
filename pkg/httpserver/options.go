package httpserver

import (
	"log/slog"
	"time"
)

// Option configures the HTTP server.
type Option func(*config)

// WithAddr sets the listen address, e.g. ":8080" or "127.0.0.1:0".
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty listen address")
	}
	return func(c *config) { c.addr = addr }
}

// WithTimeouts sets the connection timeouts. Zero leaves a value unbounded.
func WithTimeouts(read, write, idle time.Duration) Option {
	if read < 0 || write < 0 || idle < 0 {
		panic("httpserver: negative timeout")
	}
	return func(c *config) {
		c.readTimeout, c.writeTimeout, c.idleTimeout = read, write, idle
	}
}

// WithShutdownTimeout bounds how long Shutdown waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: shutdown timeout must be positive")
	}
	return func(c *config) { c.shutdownTimeout = d }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}
