package faultmonitor

import (
	"io"
	"os"
	"time"
)

// DefaultDrainTimeout bounds a drain when no other timeout is configured.
const DefaultDrainTimeout = 10 * time.Second

// Option configures a Monitor.
type Option func(*Monitor)

// WithDrainTimeout sets how long the drainer may take. Non-positive values are ignored.
func WithDrainTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.drainTimeout = d
		}
	}
}

// WithFallbackOutput sets the last-resort writer used when fault handling
// itself fails. Defaults to os.Stderr.
func WithFallbackOutput(w io.Writer) Option {
	return func(m *Monitor) {
		if w != nil {
			m.fallback = w
		}
	}
}

// WithObserver registers a callback invoked for every fault and signal.
func WithObserver(fn func(Fault)) Option {
	return func(m *Monitor) {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
	}
}

// WithSignals replaces the subscribed signals (SIGINT and SIGTERM by default).
func WithSignals(sigs ...os.Signal) Option {
	return func(m *Monitor) {
		if len(sigs) > 0 {
			m.signals = sigs
		}
	}
}

// WithSignalChannel feeds signals from ch instead of subscribing to the
// operating system. Intended for tests.
func WithSignalChannel(ch <-chan os.Signal) Option {
	return func(m *Monitor) { m.sigCh = ch }
}
