// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating named loggers
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Config holds configuration for creating loggers.
type Config struct {
	// Component name, attached to every entry
	Name string

	// Log level (debug, info, warn, error)
	Level string

	// Output format: "json" or "text" (default: text)
	Format string

	// Output writer (default: os.Stderr)
	Output io.Writer
}

// DefaultConfig returns a default configuration for a component.
func DefaultConfig(name string) Config {
	return Config{
		Name:   name,
		Level:  "info",
		Format: "text",
	}
}

// Logger is a named, leveled logger with key-value pairs.
type Logger struct {
	entry *logrus.Entry
	name  string
}

// NewWithConfig creates a logger from an explicit configuration.
func NewWithConfig(cfg Config) *Logger {
	base := logrus.New()

	if cfg.Output != nil {
		base.SetOutput(cfg.Output)
	} else {
		base.SetOutput(os.Stderr)
	}

	switch cfg.Format {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	default:
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch ParseLevel(cfg.Level) {
	case LevelDebug:
		base.SetLevel(logrus.DebugLevel)
	case LevelInfo:
		base.SetLevel(logrus.InfoLevel)
	case LevelWarn:
		base.SetLevel(logrus.WarnLevel)
	case LevelError:
		base.SetLevel(logrus.ErrorLevel)
	}

	return &Logger{
		entry: base.WithField("component", cfg.Name),
		name:  cfg.Name,
	}
}

// New creates a logger with default settings for a component.
func New(name string) *Logger {
	return NewWithConfig(DefaultConfig(name))
}

// Name returns the component name the logger was created with.
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a copy of the logger with the given minimum level.
func (l *Logger) WithLevel(level Level) *Logger {
	base := logrus.New()
	base.SetOutput(l.entry.Logger.Out)
	base.SetFormatter(l.entry.Logger.Formatter)

	switch level {
	case LevelDebug:
		base.SetLevel(logrus.DebugLevel)
	case LevelInfo:
		base.SetLevel(logrus.InfoLevel)
	case LevelWarn:
		base.SetLevel(logrus.WarnLevel)
	case LevelError:
		base.SetLevel(logrus.ErrorLevel)
	}

	return &Logger{
		entry: base.WithField("component", l.name),
		name:  l.name,
	}
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues...)).Debug(msg)
}

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues...)).Info(msg)
}

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues...)).Warn(msg)
}

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues...)).Error(msg)
}

// toFields converts key-value pairs to logrus fields. Keys that are not
// strings are skipped, as is a trailing value-less key.
func toFields(keysAndValues ...interface{}) logrus.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(logrus.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
