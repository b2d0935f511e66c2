// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     session
// Description: Recording session state machine
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package session

import (
	"sync"
	"time"
)

// State represents the current phase of the recording session.
type State int

const (
	// StateIdle - no session active, hotkeys start a new one
	StateIdle State = iota

	// StateRecording - microphone capture in progress
	StateRecording

	// StateTranscribing - waiting on the transcription provider
	StateTranscribing

	// StateEnhancing - waiting on the LLM rewrite
	StateEnhancing

	// StateBusy - teardown in progress, re-entrant starts are rejected
	StateBusy
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	case StateEnhancing:
		return "enhancing"
	case StateBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// StateChangeListener is called after every committed transition.
type StateChangeListener func(oldState, newState State)

// Machine manages recording state transitions. The session goroutines are
// the only writers; UI and hotkey code only read.
type Machine struct {
	mu           sync.RWMutex
	currentState State
	stateTime    time.Time
	listeners    []StateChangeListener
}

// NewMachine creates a state machine in the idle state.
func NewMachine() *Machine {
	return &Machine{
		currentState: StateIdle,
		stateTime:    time.Now(),
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState
}

// StateDuration returns how long the machine has been in the current state.
func (m *Machine) StateDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.stateTime)
}

// Transition moves to a new state. Invalid transitions are rejected and
// leave the machine unchanged.
func (m *Machine) Transition(newState State) bool {
	m.mu.Lock()
	oldState := m.currentState

	if !validTransition(oldState, newState) {
		m.mu.Unlock()
		return false
	}

	m.currentState = newState
	m.stateTime = time.Now()
	listeners := m.listeners
	m.mu.Unlock()

	for _, listener := range listeners {
		listener(oldState, newState)
	}

	return true
}

// AddListener registers a state change listener.
func (m *Machine) AddListener(listener StateChangeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// validTransition checks the transition table.
func validTransition(from, to State) bool {
	validTransitions := map[State][]State{
		StateIdle:         {StateRecording, StateBusy},
		StateRecording:    {StateTranscribing, StateBusy},
		StateTranscribing: {StateEnhancing, StateIdle, StateBusy},
		StateEnhancing:    {StateIdle, StateBusy},
		StateBusy:         {StateIdle},
	}

	for _, valid := range validTransitions[from] {
		if valid == to {
			return true
		}
	}
	return false
}

// CanProcessHotkey reports whether hotkey actions are currently accepted.
// While a previous recording's output pipeline still runs, hotkeys are
// inert rather than queued.
func (m *Machine) CanProcessHotkey() bool {
	switch m.Current() {
	case StateTranscribing, StateEnhancing, StateBusy:
		return false
	default:
		return true
	}
}
