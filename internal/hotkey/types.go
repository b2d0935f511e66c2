// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     hotkey
// Description: Hotkey slot bindings and raw event types
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package hotkey

import "time"

// ModifierKey identifies a modifier usable as a dictation hotkey.
type ModifierKey string

const (
	ModifierNone    ModifierKey = ""
	ModifierFn      ModifierKey = "fn"
	ModifierOption  ModifierKey = "option"
	ModifierControl ModifierKey = "control"
	ModifierCommand ModifierKey = "command"
	ModifierShift   ModifierKey = "shift"
)

// ModifierFlags is the modifier bitmask carried by flag-change events.
type ModifierFlags uint32

const (
	FlagShift ModifierFlags = 1 << iota
	FlagControl
	FlagOption
	FlagCommand
	FlagFunction
)

// flagBit maps a modifier key to its flag bit.
func flagBit(key ModifierKey) ModifierFlags {
	switch key {
	case ModifierShift:
		return FlagShift
	case ModifierControl:
		return FlagControl
	case ModifierOption:
		return FlagOption
	case ModifierCommand:
		return FlagCommand
	case ModifierFn:
		return FlagFunction
	default:
		return 0
	}
}

// ModifierEvent is one raw flag-change event from the platform.
type ModifierEvent struct {
	Key   ModifierKey
	Flags ModifierFlags
	At    time.Time
}

// Pressed reports whether the event's flag bit for its key is set.
func (e ModifierEvent) Pressed() bool {
	return e.Flags&flagBit(e.Key) != 0
}

// SlotKind distinguishes how a slot is bound.
type SlotKind int

const (
	SlotUnbound SlotKind = iota
	SlotModifier
	SlotChord
)

// SlotBinding binds one of the two hotkey slots.
type SlotBinding struct {
	Kind     SlotKind
	Modifier ModifierKey
	Chord    string // e.g. "ctrl+shift+d"
}

// Config holds the controller's bindings and timing parameters.
type Config struct {
	Slots [2]SlotBinding

	// HoldThreshold separates a brief press (arms hands-free) from a
	// press-and-hold (toggles on release).
	HoldThreshold time.Duration

	// FnDebounce settles noisy fn flag flicker before acting.
	FnDebounce time.Duration

	// ChordCooldown suppresses OS key-repeat duplicates on chord slots.
	ChordCooldown time.Duration
}

// DefaultConfig returns the standard timing parameters with no bindings.
func DefaultConfig() Config {
	return Config{
		HoldThreshold: 1700 * time.Millisecond,
		FnDebounce:    75 * time.Millisecond,
		ChordCooldown: 500 * time.Millisecond,
	}
}
