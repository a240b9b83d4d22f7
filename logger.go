package pointctl

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with engine-specific context fields.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler selects a
// text handler on stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithRun tags the logger with the run's shape.
func (l *Logger) WithRun(points, dim, reducedDim int) *Logger {
	return &Logger{Logger: l.With("points", points, "dimension", dim, "reduced_dimension", reducedDim)}
}
