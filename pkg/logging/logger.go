// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     logging
// Description: Structured logging built on logrus
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package logging

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string level to a Level. Unknown strings map to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "trace":
		return LevelDebug
	case "info", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error", "fatal":
		return LevelError
	default:
		return LevelInfo
	}
}
