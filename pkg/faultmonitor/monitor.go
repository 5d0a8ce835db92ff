package faultmonitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/logger"
)

// Monitor supervises one server for the lifetime of the process.
type Monitor struct {
	log          *slog.Logger
	fallback     io.Writer
	drainTimeout time.Duration
	signals      []os.Signal
	sigCh        <-chan os.Signal
	observers    []func(Fault)

	mu          sync.Mutex
	fallbackMu  sync.Mutex
	state       State
	drainer     Drainer
	exitCode    int
	stopSignals func()
	stopped     chan struct{}
}

// New creates a Monitor in the Starting state.
func New(log *slog.Logger, opts ...Option) *Monitor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := &Monitor{
		log:          log.With(logger.Component("faultmonitor")),
		fallback:     os.Stderr,
		drainTimeout: DefaultDrainTimeout,
		signals:      []os.Signal{os.Interrupt, syscall.SIGTERM},
		state:        Starting,
		stopSignals:  func() {},
		stopped:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attach registers the drainer of a server whose listener is bound, moves
// the monitor to Listening and subscribes to termination signals.
func (m *Monitor) Attach(d Drainer) error {
	if d == nil {
		return ErrNilDrainer
	}

	m.mu.Lock()
	if m.drainer != nil {
		m.mu.Unlock()
		return ErrAlreadyAttached
	}
	if m.state != Starting {
		m.mu.Unlock()
		return ErrNotStarting
	}
	m.drainer = d
	m.state = Listening

	ch := m.sigCh
	if ch == nil {
		osCh := make(chan os.Signal, 2)
		signal.Notify(osCh, m.signals...)
		m.stopSignals = func() { signal.Stop(osCh) }
		ch = osCh
	}
	m.mu.Unlock()

	go m.watchSignals(ch)
	return nil
}

// Go runs fn in a new goroutine. A panic in fn is handled as ClassPanic and
// a returned error as ClassRejection.
func (m *Monitor) Go(fn func() error) {
	go func() {
		defer m.Recover()
		if err := fn(); err != nil {
			m.Report(err)
		}
	}()
}

// Recover handles a panic of the calling goroutine. It must be deferred
// directly:
//
//	defer mon.Recover()
func (m *Monitor) Recover() {
	if r := recover(); r != nil {
		m.handleFault(ClassPanic, r)
	}
}

// Report hands an error nobody else handled to the monitor. Nil is ignored.
func (m *Monitor) Report(err error) {
	if err == nil {
		return
	}
	m.handleFault(ClassRejection, err)
}

// ListenerFailed reports a failure of the listener. Before Attach it means
// the server never bound: the monitor stops with exit code 1 without a
// drain. Afterwards the serve loop died and the server is drained.
func (m *Monitor) ListenerFailed(err error) {
	if err == nil {
		return
	}

	m.mu.Lock()
	if m.state == Starting {
		m.state = Stopped
		m.exitCode = 1
		m.mu.Unlock()

		m.safely("listener failure handler", err, func() {
			appErr := apperror.Normalize(err)
			m.log.Error("failed to start server", faultAttrs(ClassListener, appErr)...)
			m.notify(Fault{Class: ClassListener, Err: appErr, Time: time.Now()})
		})
		close(m.stopped)
		return
	}
	m.mu.Unlock()

	m.handleFault(ClassListener, err)
}

// Drain starts a graceful shutdown ending with exitCode. Calls after the
// first drain started are ignored.
func (m *Monitor) Drain(exitCode int) {
	m.drain(exitCode, "drain requested")
}

// Wait blocks until the monitor is Stopped and returns the exit code. If ctx
// ends first, Wait returns 1.
func (m *Monitor) Wait(ctx context.Context) int {
	select {
	case <-m.stopped:
		return m.ExitCode()
	case <-ctx.Done():
		return 1
	}
}

// Done is closed once the monitor is Stopped.
func (m *Monitor) Done() <-chan struct{} {
	return m.stopped
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ExitCode returns the exit code chosen by the first drain, or 0.
func (m *Monitor) ExitCode() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitCode
}

func (m *Monitor) watchSignals(ch <-chan os.Signal) {
	for {
		select {
		case sig := <-ch:
			m.handleSignal(sig)
		case <-m.stopped:
			return
		}
	}
}

func (m *Monitor) handleSignal(sig os.Signal) {
	if m.busy() {
		m.safely("signal handler", sig, func() {
			m.log.Debug("signal ignored, shutdown already in progress", slog.String("signal", sig.String()))
		})
		return
	}

	m.safely("signal handler", sig, func() {
		m.log.Info(fmt.Sprintf("%s received, shutting down gracefully", sig), slog.String("signal", sig.String()))
		m.notify(Fault{Class: ClassSignal, Signal: sig, Time: time.Now()})
	})
	m.drain(0, "signal "+sig.String())
}

// handleFault never panics. When logging the fault fails, the failure and
// the original value go to the fallback writer and the drain still happens.
func (m *Monitor) handleFault(class Class, v any) {
	if m.busy() {
		m.safely("fault handler", v, func() {
			m.log.Debug("fault ignored, shutdown already in progress",
				slog.String("class", class.String()),
				slog.String("message", apperror.Normalize(v).Message))
		})
		return
	}

	var appErr *apperror.Error
	m.safely("fault handler", v, func() {
		appErr = apperror.Normalize(v)
		msg := class.String() + ": " + appErr.Message
		if appErr.Operational && class != ClassListener {
			m.log.Error(msg+" (operational, server keeps running)", faultAttrs(class, appErr)...)
		} else {
			m.log.Error(msg+", shutting down", faultAttrs(class, appErr)...)
		}
		m.notify(Fault{Class: class, Err: appErr, Time: time.Now()})
	})

	if appErr != nil && appErr.Operational && class != ClassListener {
		return
	}
	m.drain(1, class.String())
}

func (m *Monitor) busy() bool {
	s := m.State()
	return s == Draining || s == Stopped
}

func (m *Monitor) drain(exitCode int, reason string) {
	m.mu.Lock()
	if m.state == Draining || m.state == Stopped {
		m.mu.Unlock()
		return
	}
	from := m.state
	m.state = Draining
	m.exitCode = exitCode
	d := m.drainer
	m.mu.Unlock()

	// The drain may be triggered from inside work the drainer waits for.
	go m.runDrain(d, from, reason)
}

func (m *Monitor) runDrain(d Drainer, from State, reason string) {
	start := time.Now()
	m.safely("drain logger", reason, func() {
		m.log.Info("draining server",
			slog.String("reason", reason),
			slog.String("from", from.String()),
			slog.Duration("timeout", m.drainTimeout))
	})

	var drainErr error
	if d != nil {
		ctx, cancel := context.WithTimeout(context.Background(), m.drainTimeout)
		m.safely("drainer", reason, func() { drainErr = d.Shutdown(ctx) })
		cancel()
	}

	m.mu.Lock()
	m.stopSignals()
	m.state = Stopped
	code := m.exitCode
	m.mu.Unlock()

	m.safely("drain logger", reason, func() {
		if drainErr != nil {
			m.log.Error("drain finished with error", logger.Error(drainErr), logger.Duration(time.Since(start)))
		}
		m.log.Info("server stopped", slog.Int("exit_code", code), logger.Duration(time.Since(start)))
	})
	close(m.stopped)
}

func (m *Monitor) notify(f Fault) {
	for _, fn := range m.observers {
		fn(f)
	}
}

// safely runs fn and reports a panic to the fallback writer together with
// the event being handled.
func (m *Monitor) safely(what string, original any, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.lastResort(what, r, original)
		}
	}()
	fn()
}

func (m *Monitor) lastResort(what string, failure, original any) {
	defer func() { _ = recover() }()
	m.fallbackMu.Lock()
	defer m.fallbackMu.Unlock()
	_, _ = fmt.Fprintf(m.fallback, "%s %s failed: %v\noriginal: %v\n",
		time.Now().Format(time.RFC3339), what, failure, original)
}

func faultAttrs(class Class, e *apperror.Error) []any {
	attrs := []any{
		slog.String("class", class.String()),
		slog.Int("status", e.Status()),
		slog.Bool("operational", e.Operational),
		slog.String("message", e.Message),
		slog.String("stack", e.Stack),
	}
	if len(e.Details) > 0 {
		attrs = append(attrs, slog.Any("details", e.Details))
	}
	if e.Cause != nil {
		attrs = append(attrs, logger.Error(e.Cause))
	}
	return attrs
}
