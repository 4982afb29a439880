package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// ComponentKey is the attribute key carrying the component tag.
const ComponentKey = "component"

// DefaultComponent is used when no component attribute is set.
const DefaultComponent = "heartbeat"

// messageIndent prefixes the second line of every record.
const messageIndent = "      "

// Handler is a slog.Handler writing the two-line format.
type Handler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	component string
	attrs     []slog.Attr
}

// NewHandler creates a handler writing records at or above level to w.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &Handler{
		mu:        &sync.Mutex{},
		w:         w,
		level:     level,
		component: DefaultComponent,
	}
}

// Enabled reports whether records at l are written.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

// Handle formats r and writes it in a single call to the sink.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	component := h.component
	var extra []slog.Attr
	extra = append(extra, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == ComponentKey {
			component = a.Value.String()
			return true
		}
		extra = append(extra, a)
		return true
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s[1]\n", LevelTag(r.Level), component)
	b.WriteString(messageIndent)
	b.WriteString(r.Message)
	for _, a := range extra {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := io.WriteString(h.w, b.String()); err != nil {
		return &WriteError{Component: component, Err: err}
	}
	return nil
}

// WithAttrs returns a handler that adds attrs to every record. A component
// attribute replaces the handler's component tag.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = nil
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		if a.Key == ComponentKey {
			h2.component = a.Value.String()
			continue
		}
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

// WithGroup is a no-op; the console format has no notion of groups.
func (h *Handler) WithGroup(string) slog.Handler {
	return h
}

// LevelTag returns the four-character tag for l.
func LevelTag(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "trac"
	case l < slog.LevelInfo:
		return "debg"
	case l < slog.LevelWarn:
		return "info"
	case l < slog.LevelError:
		return "warn"
	default:
		return "eror"
	}
}

// ParseLevel converts a level name from configuration into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// WriteError reports a failed write to the log sink.
type WriteError struct {
	Component string
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write log line for %s: %v", e.Component, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
