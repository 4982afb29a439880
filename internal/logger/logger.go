package logger

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Logger writes records through a Handler and reports sink failures.
type Logger struct {
	handler slog.Handler
}

// New creates a logger writing to w at the given minimum level.
func New(w io.Writer, level slog.Leveler) *Logger {
	return &Logger{handler: NewHandler(w, level)}
}

// With returns a logger tagged with component.
func (l *Logger) With(component string) *Logger {
	return &Logger{handler: l.handler.WithAttrs([]slog.Attr{slog.String(ComponentKey, component)})}
}

// Log writes one record. Disabled levels are skipped and return nil.
func (l *Logger) Log(ctx context.Context, level slog.Level, msg string, args ...any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, level) {
		return nil
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.Add(args...)
	return l.handler.Handle(ctx, r)
}

func (l *Logger) Debug(msg string, args ...any) error {
	return l.Log(context.Background(), slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) error {
	return l.Log(context.Background(), slog.LevelInfo, msg, args...)
}
