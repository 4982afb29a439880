package coordinator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"heartbeat/internal/config"
	"heartbeat/internal/logger"
	"heartbeat/internal/routine"
	"heartbeat/internal/signals"
)

// fakeTickers hands out one manual tick channel per routine interval.
type fakeTickers struct {
	mu    sync.Mutex
	chans map[time.Duration]chan time.Time
	ready chan time.Duration
}

func newFakeTickers(n int) *fakeTickers {
	return &fakeTickers{
		chans: make(map[time.Duration]chan time.Time),
		ready: make(chan time.Duration, n),
	}
}

func (f *fakeTickers) start(d time.Duration) (<-chan time.Time, func()) {
	ch := make(chan time.Time)
	f.mu.Lock()
	f.chans[d] = ch
	f.mu.Unlock()
	f.ready <- d
	return ch, func() {}
}

func (f *fakeTickers) waitReady(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.ready:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d routines started", i, n)
		}
	}
}

func (f *fakeTickers) tick(d time.Duration, at time.Time) {
	f.mu.Lock()
	ch := f.chans[d]
	f.mu.Unlock()
	ch <- at
}

type fakeNotifier struct {
	mu      sync.Mutex
	ch      chan<- os.Signal
	stopped bool
}

func (f *fakeNotifier) Notify(c chan<- os.Signal, _ ...os.Signal) {
	f.mu.Lock()
	f.ch = c
	f.mu.Unlock()
}

func (f *fakeNotifier) Stop(chan<- os.Signal) {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeNotifier) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func (f *fakeNotifier) deliver(sig os.Signal) {
	f.mu.Lock()
	ch := f.ch
	f.mu.Unlock()
	ch <- sig
}

// syncBuffer guards a bytes.Buffer so the test can read while units write.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var testNotifications = []signals.Notification{
	{Signal: syscall.SIGTERM, Name: "SIGTERM"},
	{Signal: syscall.SIGINT, Name: "SIGINT"},
}

func runAsync(c *Coordinator, ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Run(ctx)
	}()
	return errCh
}

func waitRun(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("Run() did not return in time")
		return nil
	}
}

func TestCoordinatorGracefulShutdown(t *testing.T) {
	var out syncBuffer
	start := time.Now()
	tickers := newFakeTickers(3)
	notifier := &fakeNotifier{}

	c := New(config.Default(), logger.New(&out, slog.LevelDebug),
		WithClock(func() time.Time { return start }),
		WithRoutineOptions(routine.WithTicker(tickers.start)),
		WithListenerOptions(signals.WithNotifier(notifier), signals.WithNotifications(testNotifications)),
	)
	errCh := runAsync(c, context.Background())
	tickers.waitReady(t, 3)

	tickers.tick(2*time.Second, start.Add(2*time.Second))
	tickers.tick(3*time.Second, start.Add(3*time.Second))
	tickers.tick(2*time.Second, start.Add(4*time.Second))
	tickers.tick(5*time.Second, start.Add(5*time.Second))
	notifier.deliver(syscall.SIGINT)

	if err := waitRun(t, errCh); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"debg: heartbeat::routine[1]\n      debug message at 2.0 sec\n",
		"info: heartbeat::routine[1]\n      information at 3.0 sec\n",
		"debg: heartbeat::routine[1]\n      debug message at 4.0 sec\n",
		"warn: heartbeat::routine[1]\n      warning at 5.0 sec\n",
		"debg: heartbeat::signal[1]\n      Received SIGINT.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot:\n%s", want, got)
		}
	}

	final := "info: heartbeat[1]\n      successfully end with message\n"
	if !strings.HasSuffix(got, final) {
		t.Errorf("output should end with %q\ngot:\n%s", final, got)
	}
	if strings.Count(got, "successfully end") != 1 {
		t.Errorf("final line count = %d, want 1", strings.Count(got, "successfully end"))
	}
}

func TestCoordinatorAbsorbsRepeatedSignal(t *testing.T) {
	out := &gateWriter{
		match:   "successfully end",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	tickers := newFakeTickers(3)
	notifier := &fakeNotifier{}

	c := New(config.Default(), logger.New(out, slog.LevelDebug),
		WithRoutineOptions(routine.WithTicker(tickers.start)),
		WithListenerOptions(signals.WithNotifier(notifier), signals.WithNotifications(testNotifications)),
	)
	errCh := runAsync(c, context.Background())
	tickers.waitReady(t, 3)

	notifier.deliver(syscall.SIGINT)
	<-out.entered

	// Shutdown is in progress: the registration is still held.
	if notifier.isStopped() {
		t.Error("signals released before the final line was written")
	}
	notifier.deliver(syscall.SIGINT)

	close(out.release)
	if err := waitRun(t, errCh); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	if !notifier.isStopped() {
		t.Error("signals should be released once Run returns")
	}
	if n := strings.Count(out.String(), "Received SIGINT."); n != 1 {
		t.Errorf("Received lines = %d, want 1\ngot:\n%s", n, out.String())
	}
}

// gateWriter blocks writes containing match until released.
type gateWriter struct {
	syncBuffer
	match   string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gateWriter) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte(g.match)) {
		g.once.Do(func() { close(g.entered) })
		<-g.release
	}
	return g.syncBuffer.Write(p)
}

func TestCoordinatorJoinWaitsForAllUnits(t *testing.T) {
	out := &gateWriter{
		match:   "information",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	start := time.Now()
	tickers := newFakeTickers(3)
	notifier := &fakeNotifier{}
	ctx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	c := New(config.Default(), logger.New(out, slog.LevelDebug),
		WithClock(func() time.Time { return start }),
		WithRoutineOptions(routine.WithTicker(tickers.start)),
		WithListenerOptions(signals.WithNotifier(notifier), signals.WithNotifications(testNotifications)),
	)
	errCh := runAsync(c, ctx)
	tickers.waitReady(t, 3)

	// The info routine is now stuck mid-emit.
	tickers.tick(3*time.Second, start.Add(3*time.Second))
	<-out.entered

	cancelRun()

	select {
	case err := <-errCh:
		t.Fatalf("Run() returned %v while a routine was still emitting", err)
	case <-time.After(150 * time.Millisecond):
	}

	close(out.release)

	if err := waitRun(t, errCh); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if !strings.Contains(out.String(), "information at 3.0 sec") {
		t.Errorf("in-flight line should be completed, got:\n%s", out.String())
	}
	if !strings.HasSuffix(out.String(), "successfully end with message\n") {
		t.Errorf("output should end with final line, got:\n%s", out.String())
	}
}

func TestCoordinatorRunsUntilSignalled(t *testing.T) {
	var out syncBuffer
	cfg := &config.Config{
		LogLevel: "debug",
		Routines: []config.RoutineConfig{
			{Level: "info", Interval: 20 * time.Millisecond, Message: "information"},
			{Level: "debug", Interval: 30 * time.Millisecond, Message: "debug message"},
		},
	}
	ctx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	c := New(cfg, logger.New(&out, slog.LevelDebug),
		WithListenerOptions(signals.WithNotifier(&fakeNotifier{}), signals.WithNotifications(testNotifications)),
	)
	errCh := runAsync(c, ctx)

	// No signal: the harness keeps running.
	select {
	case err := <-errCh:
		t.Fatalf("Run() returned %v without a shutdown request", err)
	case <-time.After(200 * time.Millisecond):
	}

	cancelRun()
	if err := waitRun(t, errCh); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "information at") || !strings.Contains(got, "debug message at") {
		t.Errorf("expected periodic lines from both routines, got:\n%s", got)
	}
}

func TestCoordinatorRegistrationFailure(t *testing.T) {
	var out syncBuffer
	tickers := newFakeTickers(3)

	c := New(config.Default(), logger.New(&out, slog.LevelDebug),
		WithRoutineOptions(routine.WithTicker(tickers.start)),
		WithListenerOptions(signals.WithNotifier(&fakeNotifier{}), signals.WithNotifications(nil)),
	)

	err := c.Run(context.Background())
	if !errors.Is(err, signals.ErrNoNotifications) {
		t.Fatalf("Run() = %v, want ErrNoNotifications", err)
	}
	if len(tickers.ready) != 0 {
		t.Errorf("%d routines started despite registration failure", len(tickers.ready))
	}
	if out.String() != "" {
		t.Errorf("output = %q, want nothing", out.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("stdout closed")
}

func TestCoordinatorWriteFailureStopsEverything(t *testing.T) {
	start := time.Now()
	tickers := newFakeTickers(3)

	c := New(config.Default(), logger.New(failingWriter{}, slog.LevelDebug),
		WithClock(func() time.Time { return start }),
		WithRoutineOptions(routine.WithTicker(tickers.start)),
		WithListenerOptions(signals.WithNotifier(&fakeNotifier{}), signals.WithNotifications(testNotifications)),
	)
	errCh := runAsync(c, context.Background())
	tickers.waitReady(t, 3)

	tickers.tick(5*time.Second, start.Add(5*time.Second))

	err := waitRun(t, errCh)
	var writeErr *logger.WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Run() = %v, want *logger.WriteError", err)
	}
	if !strings.Contains(err.Error(), "warn routine") {
		t.Errorf("Error() = %q, want failing routine named", err.Error())
	}
}
