package faultmonitor_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/faultmonitor"
)

// fakeDrainer counts Shutdown calls and optionally blocks until released.
type fakeDrainer struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	err     error
	once    sync.Once
}

func newFakeDrainer(blocking bool) *fakeDrainer {
	d := &fakeDrainer{entered: make(chan struct{})}
	if blocking {
		d.release = make(chan struct{})
	}
	return d
}

func (d *fakeDrainer) Shutdown(ctx context.Context) error {
	d.calls.Add(1)
	d.once.Do(func() { close(d.entered) })
	if d.release != nil {
		select {
		case <-d.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return d.err
}

type faultLog struct {
	mu     sync.Mutex
	faults []faultmonitor.Fault
}

func (l *faultLog) observe(f faultmonitor.Fault) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.faults = append(l.faults, f)
}

func (l *faultLog) classes() []faultmonitor.Class {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]faultmonitor.Class, 0, len(l.faults))
	for _, f := range l.faults {
		out = append(out, f.Class)
	}
	return out
}

type setup struct {
	mon     *faultmonitor.Monitor
	sigs    chan os.Signal
	drainer *fakeDrainer
	faults  *faultLog
	logs    *lockedWriter
}

func newAttached(t *testing.T, blocking bool, opts ...faultmonitor.Option) setup {
	t.Helper()
	s := setup{
		sigs:    make(chan os.Signal, 4),
		drainer: newFakeDrainer(blocking),
		faults:  &faultLog{},
		logs:    &lockedWriter{w: &bytes.Buffer{}},
	}
	log := slog.New(slog.NewJSONHandler(s.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts = append([]faultmonitor.Option{
		faultmonitor.WithSignalChannel(s.sigs),
		faultmonitor.WithObserver(s.faults.observe),
		faultmonitor.WithDrainTimeout(time.Second),
	}, opts...)
	s.mon = faultmonitor.New(log, opts...)
	require.NoError(t, s.mon.Attach(s.drainer))
	return s
}

type lockedWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

func wait(t *testing.T, mon *faultmonitor.Monitor) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	select {
	case <-mon.Done():
	case <-ctx.Done():
		t.Fatal("monitor did not stop")
	}
	return mon.Wait(ctx)
}

func TestNewMonitorIsStarting(t *testing.T) {
	t.Parallel()

	mon := faultmonitor.New(nil)
	assert.Equal(t, faultmonitor.Starting, mon.State())
	assert.Equal(t, 0, mon.ExitCode())
}

func TestAttach(t *testing.T) {
	t.Parallel()

	s := newAttached(t, false)
	assert.Equal(t, faultmonitor.Listening, s.mon.State())
	assert.ErrorIs(t, s.mon.Attach(newFakeDrainer(false)), faultmonitor.ErrAlreadyAttached)
	assert.ErrorIs(t, faultmonitor.New(nil).Attach(nil), faultmonitor.ErrNilDrainer)
}

func TestSignalDrainsWithExitCodeZero(t *testing.T) {
	t.Parallel()

	s := newAttached(t, false)
	s.sigs <- syscall.SIGTERM

	assert.Equal(t, 0, wait(t, s.mon))
	assert.Equal(t, faultmonitor.Stopped, s.mon.State())
	assert.Equal(t, int32(1), s.drainer.calls.Load())
	assert.Equal(t, []faultmonitor.Class{faultmonitor.ClassSignal}, s.faults.classes())
}

func TestDoubleSignalDrainsOnce(t *testing.T) {
	t.Parallel()

	s := newAttached(t, true)
	s.sigs <- syscall.SIGINT
	<-s.drainer.entered
	s.sigs <- syscall.SIGTERM

	require.Eventually(t, func() bool {
		return bytes.Contains(s.logsSnapshot(), []byte("signal ignored"))
	}, time.Second, 10*time.Millisecond)

	close(s.drainer.release)
	assert.Equal(t, 0, wait(t, s.mon))
	assert.Equal(t, int32(1), s.drainer.calls.Load())
}

func (s setup) logsSnapshot() []byte {
	s.logs.mu.Lock()
	defer s.logs.mu.Unlock()
	return append([]byte(nil), s.logs.w.Bytes()...)
}

func TestFaultDuringDrainIsIgnored(t *testing.T) {
	t.Parallel()

	s := newAttached(t, true)
	s.sigs <- syscall.SIGTERM
	<-s.drainer.entered
	assert.Equal(t, faultmonitor.Draining, s.mon.State())

	s.mon.Report(errors.New("late failure"))
	s.mon.Go(func() error { panic("late panic") })

	close(s.drainer.release)
	assert.Equal(t, 0, wait(t, s.mon), "exit code chosen by the first drain")
	assert.Equal(t, int32(1), s.drainer.calls.Load())
}

func TestOperationalFaultKeepsServing(t *testing.T) {
	t.Parallel()

	s := newAttached(t, false)
	s.mon.Report(apperror.BadRequest("bad input from a background job"))

	assert.Equal(t, faultmonitor.Listening, s.mon.State())
	assert.Equal(t, int32(0), s.drainer.calls.Load())
	assert.Equal(t, []faultmonitor.Class{faultmonitor.ClassRejection}, s.faults.classes())
	assert.Contains(t, string(s.logsSnapshot()), "operational, server keeps running")
}

func TestNonOperationalRejectionDrains(t *testing.T) {
	t.Parallel()

	s := newAttached(t, false)
	s.mon.Go(func() error { return errors.New("connection reset") })

	assert.Equal(t, 1, wait(t, s.mon))
	assert.Equal(t, int32(1), s.drainer.calls.Load())
	assert.Equal(t, []faultmonitor.Class{faultmonitor.ClassRejection}, s.faults.classes())
}

func TestPanicInGoDrains(t *testing.T) {
	t.Parallel()

	s := newAttached(t, false)
	s.mon.Go(func() error {
		var m map[string]int
		m["boom"] = 1
		return nil
	})

	assert.Equal(t, 1, wait(t, s.mon))
	classes := s.faults.classes()
	require.Len(t, classes, 1)
	assert.Equal(t, faultmonitor.ClassPanic, classes[0])
	assert.Contains(t, string(s.logsSnapshot()), "assignment to entry in nil map")
}

func TestRecoverInGoroutine(t *testing.T) {
	t.Parallel()

	s := newAttached(t, false)
	go func() {
		defer s.mon.Recover()
		panic(errors.New("worker crashed"))
	}()

	assert.Equal(t, 1, wait(t, s.mon))
}

func TestPanicWithNonErrorValue(t *testing.T) {
	t.Parallel()

	s := newAttached(t, false)
	s.mon.Go(func() error { panic(42) })

	assert.Equal(t, 1, wait(t, s.mon))
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	require.Len(t, s.faults.faults, 1)
	assert.Contains(t, s.faults.faults[0].Err.Message, "int")
	assert.Contains(t, s.faults.faults[0].Err.Message, "42")
}

func TestListenerFailedBeforeAttach(t *testing.T) {
	t.Parallel()

	drainer := newFakeDrainer(false)
	faults := &faultLog{}
	mon := faultmonitor.New(nil, faultmonitor.WithObserver(faults.observe))
	mon.ListenerFailed(errors.New("listen tcp :80: bind: address already in use"))

	assert.Equal(t, 1, wait(t, mon))
	assert.Equal(t, faultmonitor.Stopped, mon.State())
	assert.Equal(t, int32(0), drainer.calls.Load())
	assert.Equal(t, []faultmonitor.Class{faultmonitor.ClassListener}, faults.classes())
	assert.ErrorIs(t, mon.Attach(drainer), faultmonitor.ErrNotStarting)
}

func TestListenerFailedAfterAttachDrains(t *testing.T) {
	t.Parallel()

	s := newAttached(t, false)
	s.mon.ListenerFailed(apperror.BadRequest("even operational listener errors are fatal"))

	assert.Equal(t, 1, wait(t, s.mon))
	assert.Equal(t, int32(1), s.drainer.calls.Load())
}

func TestDrainTimeout(t *testing.T) {
	t.Parallel()

	s := newAttached(t, true, faultmonitor.WithDrainTimeout(50*time.Millisecond))
	start := time.Now()
	s.mon.Drain(0)

	assert.Equal(t, 0, wait(t, s.mon))
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, string(s.logsSnapshot()), "drain finished with error")
}

func TestDrainBeforeAttach(t *testing.T) {
	t.Parallel()

	mon := faultmonitor.New(nil)
	mon.Report(errors.New("migration goroutine failed"))
	assert.Equal(t, 1, wait(t, mon))
}

func TestLoggerPanicUsesFallback(t *testing.T) {
	t.Parallel()

	fallback := &lockedWriter{w: &bytes.Buffer{}}
	mon := faultmonitor.New(slog.New(panicHandler{}),
		faultmonitor.WithFallbackOutput(fallback),
		faultmonitor.WithSignalChannel(make(chan os.Signal)),
	)
	drainer := newFakeDrainer(false)
	require.NoError(t, mon.Attach(drainer))

	assert.NotPanics(t, func() { mon.Report(errors.New("original failure")) })
	assert.Equal(t, 1, wait(t, mon))
	assert.Equal(t, int32(1), drainer.calls.Load())

	fallback.mu.Lock()
	out := fallback.w.String()
	fallback.mu.Unlock()
	assert.Contains(t, out, "fault handler failed")
	assert.Contains(t, out, "log sink exploded")
	assert.Contains(t, out, "original failure")
}

func TestWaitHonorsContext(t *testing.T) {
	t.Parallel()

	mon := faultmonitor.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 1, mon.Wait(ctx))
}

func TestStateAndClassStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "listening", faultmonitor.Listening.String())
	assert.Equal(t, "stopped", faultmonitor.Stopped.String())
	assert.Equal(t, "uncaught_panic", faultmonitor.ClassPanic.String())
	assert.Equal(t, "unhandled_rejection", faultmonitor.ClassRejection.String())
}

type panicHandler struct{}

func (panicHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (panicHandler) Handle(context.Context, slog.Record) error { panic("log sink exploded") }
func (h panicHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h panicHandler) WithGroup(string) slog.Handler           { return h }
