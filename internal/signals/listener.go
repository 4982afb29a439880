package signals

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"heartbeat/internal/cancel"
	"heartbeat/internal/logger"
)

// Component is the log tag used by the listener.
const Component = "heartbeat::signal"

var (
	ErrNoNotifier      = errors.New("signals: no notifier available")
	ErrNoNotifications = errors.New("signals: no termination notifications to register")
	ErrNotRegistered   = errors.New("signals: listener is not registered")
)

// Notification pairs an OS signal with the name logged when it arrives.
type Notification struct {
	Signal os.Signal
	Name   string
}

// Option configures a Listener.
type Option func(*Listener)

// WithNotifier replaces the os/signal notifier.
func WithNotifier(n Notifier) Option {
	return func(l *Listener) {
		l.notifier = n
	}
}

// WithNotifications replaces the platform notification table.
func WithNotifications(ns []Notification) Option {
	return func(l *Listener) {
		l.notifications = ns
	}
}

// Listener waits for the first termination notification and cancels the
// token.
type Listener struct {
	log           *logger.Logger
	token         *cancel.Token
	notifier      Notifier
	notifications []Notification

	mu         sync.Mutex
	ch         chan os.Signal
	registered bool
}

// NewListener creates a listener for the platform's notifications.
func NewListener(log *logger.Logger, token *cancel.Token, opts ...Option) *Listener {
	l := &Listener{
		log:           log.With(Component),
		token:         token,
		notifier:      NewOSNotifier(),
		notifications: Notifications(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register installs interest in every notification. It must succeed
// before any work starts; without it the process has no way to shut down.
func (l *Listener) Register() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.registered {
		return nil
	}
	if l.notifier == nil {
		return ErrNoNotifier
	}
	if len(l.notifications) == 0 {
		return ErrNoNotifications
	}

	sigs := make([]os.Signal, 0, len(l.notifications))
	for _, n := range l.notifications {
		if n.Signal == nil {
			return fmt.Errorf("signals: notification %q has no signal", n.Name)
		}
		sigs = append(sigs, n.Signal)
	}

	l.ch = make(chan os.Signal, len(sigs))
	l.notifier.Notify(l.ch, sigs...)
	l.registered = true
	return nil
}

// Wait blocks until a notification arrives, the token is cancelled by
// another unit or ctx is done. On a notification it logs which one, cancels
// the token and returns. Wait handles at most one notification; the
// registration stays in place until Close so that a repeated Ctrl-C during
// shutdown is absorbed instead of killing the process.
func (l *Listener) Wait(ctx context.Context) error {
	l.mu.Lock()
	ch, registered := l.ch, l.registered
	l.mu.Unlock()

	if !registered {
		return ErrNotRegistered
	}

	select {
	case sig := <-ch:
		err := l.log.Debug(fmt.Sprintf("Received %s.", l.nameOf(sig)))
		l.token.Cancel()
		if err != nil {
			return fmt.Errorf("signal listener: %w", err)
		}
		return nil
	case <-l.token.Done():
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Close releases the registration. The default signal behaviour applies
// again afterwards. Close is safe to call more than once.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.registered {
		return
	}
	l.notifier.Stop(l.ch)
	l.registered = false
}

func (l *Listener) nameOf(sig os.Signal) string {
	for _, n := range l.notifications {
		if n.Signal == sig {
			return n.Name
		}
	}
	return sig.String()
}
