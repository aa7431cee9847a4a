// Package log provides a structured logging interface for vaxset dataset operations.
//
// The Logger interface is slog-compatible so that the backend can be switched
// without touching call sites. Two backends ship with the package: a zerolog
// logger (the default) and an adapter over any slog.Handler, wrapped by
// ErrFmtHandler so cockroachdb stack traces are emitted as an attribute.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "dataset",
//	    log.ViewKey, log.ViewOneHot,
//	)
//	logger.Info("View built",
//	    log.SamplesKey, 26707,
//	    log.FeaturesKey, 35,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. Loggers derived with With carry
// their fields into every subsequent record.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error value (an odd number of fields), it is
	// recorded under the "error" key and its stack trace, when available, is
	// attached.
	//
	// Example:
	//   logger.Error("View failed",
	//       err,
	//       log.ViewKey, log.ViewNoOutliers,
	//       log.PathKey, "data/train_no_outliers.csv",
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive fields.
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

// LoggerProvider defines an interface for creating and configuring loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
