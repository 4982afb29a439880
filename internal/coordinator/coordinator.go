// Package coordinator wires the routines and the signal listener together
// and owns the shutdown barrier.
package coordinator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"heartbeat/internal/cancel"
	"heartbeat/internal/config"
	"heartbeat/internal/logger"
	"heartbeat/internal/routine"
	"heartbeat/internal/signals"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRoutineOptions passes opts to every routine.
func WithRoutineOptions(opts ...routine.Option) Option {
	return func(c *Coordinator) {
		c.routineOpts = append(c.routineOpts, opts...)
	}
}

// WithListenerOptions passes opts to the signal listener.
func WithListenerOptions(opts ...signals.Option) Option {
	return func(c *Coordinator) {
		c.listenerOpts = append(c.listenerOpts, opts...)
	}
}

// WithClock replaces time.Now for the start reference.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// Coordinator runs one routine per configured entry plus the listener.
type Coordinator struct {
	cfg          *config.Config
	log          *logger.Logger
	routineOpts  []routine.Option
	listenerOpts []signals.Option
	now          func() time.Time
}

// New creates a coordinator for cfg. cfg must already be validated.
func New(cfg *config.Config, log *logger.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run blocks until every unit has stopped. Units stop when a termination
// signal arrives, when ctx is done, or when any unit fails; the first
// failure is returned. On a clean stop it logs the final line.
func (c *Coordinator) Run(ctx context.Context) error {
	start := c.now()
	token := cancel.New()

	listener := signals.NewListener(c.log, token, c.listenerOpts...)
	if err := listener.Register(); err != nil {
		return fmt.Errorf("failed to register shutdown signals: %w", err)
	}
	// Held until the final line is written; a second Ctrl-C during
	// shutdown is absorbed.
	defer listener.Close()

	g, gctx := errgroup.WithContext(ctx)

	// gctx ends on the first unit error, on parent cancellation, or when
	// Wait returns.
	go func() {
		<-gctx.Done()
		token.Cancel()
	}()

	unitCtx, release := token.Context(gctx)
	defer release()

	for _, rc := range c.cfg.Routines {
		r := routine.New(rc, start, token, c.log, c.routineOpts...)
		g.Go(func() error {
			return r.Run(unitCtx)
		})
	}
	g.Go(func() error {
		return listener.Wait(unitCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if err := c.log.Info("successfully end with message"); err != nil {
		return fmt.Errorf("failed to log shutdown: %w", err)
	}
	return nil
}
