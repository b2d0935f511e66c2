// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     hotkey
// Description: Clock abstraction for debounce timers
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package hotkey

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock supplies time and timers so debounce behavior is testable.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return realClock{} }
