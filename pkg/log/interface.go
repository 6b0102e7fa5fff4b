// Package log provides the structured logging interface used across logiteval.
//
// The interface is a small slog-compatible surface so the evaluation engine
// can log fold progress and results without committing to a backend. Two
// backends ship with the package: a slog JSON handler (SetupLogger) and a
// zerolog logger (NewZerologLogger). Tests use TestLogger to capture output.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "evaluation",
//	    log.ModeKey, "cross-validated",
//	)
//	logger.Info("cross-validation finished",
//	    log.FoldsKey, 10,
//	    log.SamplesKey, 1000,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. With returns a child
// logger that carries the given fields on every record.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it
	// is attached under ErrAttrKey.
	//
	// Example:
	//   logger.Error("fold fit failed",
	//       err,
	//       log.FoldKey, 3,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
