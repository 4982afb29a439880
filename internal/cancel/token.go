// Package cancel provides the one-shot shutdown flag shared by every
// heartbeat unit.
package cancel

import (
	"context"
	"sync"
)

// Token is a broadcast cancellation flag. It starts active and moves to
// cancelled exactly once.
type Token struct {
	once sync.Once
	done chan struct{}
}

// New creates an active token.
func New() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel marks the token cancelled. Calls after the first have no effect.
func (t *Token) Cancel() {
	t.once.Do(func() {
		close(t.done)
	})
}

// IsCancelled reports whether Cancel has been called. It never blocks.
func (t *Token) IsCancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the token is cancelled.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Context derives a context from parent that is cancelled together with
// the token. The returned CancelFunc releases the watcher goroutine.
func (t *Token) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-t.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
