// Package routine implements the periodic log emitters.
package routine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"heartbeat/internal/cancel"
	"heartbeat/internal/config"
	"heartbeat/internal/logger"
)

// Component is the log tag used by every routine.
const Component = "heartbeat::routine"

// State is the lifecycle state of a routine.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// TickerFunc starts a tick source firing every d. It returns the tick
// channel and a function releasing it.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func systemTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Option configures a Routine.
type Option func(*Routine)

// WithTicker replaces the tick source.
func WithTicker(f TickerFunc) Option {
	return func(r *Routine) {
		r.newTicker = f
	}
}

// Routine emits one log line per tick until its token is cancelled.
type Routine struct {
	label     string
	level     slog.Level
	interval  time.Duration
	message   string
	start     time.Time
	token     *cancel.Token
	log       *logger.Logger
	newTicker TickerFunc

	mu    sync.RWMutex
	state State
}

// New creates a routine for cfg. start is the shared clock reference.
func New(cfg config.RoutineConfig, start time.Time, token *cancel.Token, log *logger.Logger, opts ...Option) *Routine {
	r := &Routine{
		label:     cfg.Level,
		level:     cfg.SlogLevel(),
		interval:  cfg.Interval,
		message:   cfg.Message,
		start:     start,
		token:     token,
		log:       log.With(Component),
		newTicker: systemTicker,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Routine) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Routine) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Run blocks until the token is cancelled or ctx is done. Ticks are scheduled from the
// start of Run; a slow receiver drops ticks rather than queueing them.
// The only error returned is a failed log write.
func (r *Routine) Run(ctx context.Context) error {
	ticks, stop := r.newTicker(r.interval)
	defer stop()

	r.setState(StateRunning)
	defer r.setState(StateStopped)

	for {
		if r.token.IsCancelled() {
			return nil
		}

		select {
		case <-r.token.Done():
			return nil
		case <-ctx.Done():
			return nil
		case t := <-ticks:
			if err := r.log.Log(ctx, r.level, FormatMessage(r.message, t.Sub(r.start))); err != nil {
				return fmt.Errorf("%s routine: %w", r.label, err)
			}
		}
	}
}

// FormatMessage renders "<message> at <seconds> sec" with one decimal.
func FormatMessage(message string, elapsed time.Duration) string {
	return fmt.Sprintf("%s at %.1f sec", message, elapsed.Seconds())
}
