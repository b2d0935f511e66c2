// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     hotkey
// Description: Debounces raw key events into recording toggle actions
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package hotkey

import (
	"sync"
	"time"

	"github.com/zhangyu1818/typefree/pkg/logging"
)

// Callbacks connect the controller to the session machine.
type Callbacks struct {
	// Toggle flips recording on or off.
	Toggle func()

	// CanProcess reports whether the session accepts hotkey actions.
	// False while a previous recording's output pipeline is running.
	CanProcess func() bool

	// RecorderVisible reports whether the recorder UI is already showing;
	// a press is then treated as already handled.
	RecorderVisible func() bool
}

// familyState is the shared press state for one slot family. All modifier
// slots share one family, all chord slots another, since only one physical
// key of a family can be mid-press at a time.
type familyState struct {
	pressStart  time.Time
	handsFree   bool
	lastTrigger time.Time // chord cooldown only
}

// Controller converts noisy key-state transitions from up to two hotkey
// slots into toggle actions. Single goroutine ownership is assumed for
// event delivery per slot; internal state is still locked because timer
// callbacks fire on their own goroutine.
type Controller struct {
	mu     sync.Mutex
	cfg    Config
	cb     Callbacks
	clock  Clock
	logger *logging.Logger

	// Per-slot last observed physical state.
	slotState [2]bool

	// Shared per-family press tracking.
	modifiers familyState
	chords    familyState

	// fn debounce
	fnPending      bool
	fnPendingValid bool
	fnTimer        Timer
	fnSlot         int
}

// NewController creates a controller. A nil clock uses the system clock.
func NewController(cfg Config, cb Callbacks, clock Clock, logger *logging.Logger) *Controller {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = logging.New("hotkey")
	}
	if cfg.HoldThreshold <= 0 {
		cfg.HoldThreshold = DefaultConfig().HoldThreshold
	}
	if cfg.FnDebounce <= 0 {
		cfg.FnDebounce = DefaultConfig().FnDebounce
	}
	if cfg.ChordCooldown <= 0 {
		cfg.ChordCooldown = DefaultConfig().ChordCooldown
	}
	return &Controller{cfg: cfg, cb: cb, clock: clock, logger: logger}
}

// Rebind installs a new binding configuration. All key state, pending
// timers and hands-free flags are cleared first so nothing leaks across a
// reconfiguration.
func (c *Controller) Rebind(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fnTimer != nil {
		c.fnTimer.Stop()
		c.fnTimer = nil
	}
	c.fnPendingValid = false
	c.slotState = [2]bool{}
	c.modifiers = familyState{}
	c.chords = familyState{}

	if cfg.HoldThreshold <= 0 {
		cfg.HoldThreshold = c.cfg.HoldThreshold
	}
	if cfg.FnDebounce <= 0 {
		cfg.FnDebounce = c.cfg.FnDebounce
	}
	if cfg.ChordCooldown <= 0 {
		cfg.ChordCooldown = c.cfg.ChordCooldown
	}
	c.cfg = cfg
}

// Config returns the active binding configuration.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// HandleModifierEvent processes one raw modifier flag-change event.
func (c *Controller) HandleModifierEvent(ev ModifierEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.modifierSlot(ev.Key)
	if !ok {
		return
	}

	pressed := ev.Pressed()

	if ev.Key == ModifierFn {
		// fn flag changes flicker on physical keyboards; act only once
		// the candidate state survives the settle window.
		c.fnPending = pressed
		c.fnPendingValid = true
		c.fnSlot = slot
		if c.fnTimer != nil {
			c.fnTimer.Stop()
		}
		c.fnTimer = c.clock.AfterFunc(c.cfg.FnDebounce, c.fnSettled)
		return
	}

	c.applyModifierState(slot, pressed, ev.At)
}

// fnSettled fires when the fn debounce window elapses.
func (c *Controller) fnSettled() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fnPendingValid {
		return
	}
	c.fnPendingValid = false
	c.applyModifierState(c.fnSlot, c.fnPending, c.clock.Now())
}

// applyModifierState deduplicates and routes a settled state change.
func (c *Controller) applyModifierState(slot int, pressed bool, at time.Time) {
	if c.slotState[slot] == pressed {
		return
	}
	c.slotState[slot] = pressed
	c.processKeyPress(&c.modifiers, pressed, at)
}

// HandleChordDown processes a registered chord's key-down event.
func (c *Controller) HandleChordDown(slot int, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isChordSlot(slot) {
		return
	}
	if !c.chords.lastTrigger.IsZero() && at.Sub(c.chords.lastTrigger) < c.cfg.ChordCooldown {
		// OS auto-repeat duplicate.
		return
	}
	c.chords.lastTrigger = at
	c.slotState[slot] = true
	c.processKeyPress(&c.chords, true, at)
}

// HandleChordUp processes a registered chord's key-up event.
func (c *Controller) HandleChordUp(slot int, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isChordSlot(slot) {
		return
	}
	c.slotState[slot] = false
	c.processKeyPress(&c.chords, false, at)
}

// processKeyPress applies the press/release contract for one family.
// Press: hands-free armed -> disarm and toggle once; otherwise toggle when
// the recorder is not already up. Release: a brief press arms hands-free
// (never stops an active recording); a long hold toggles.
func (c *Controller) processKeyPress(fam *familyState, pressed bool, at time.Time) {
	if pressed {
		fam.pressStart = at

		if fam.handsFree {
			fam.handsFree = false
			c.guardedToggle()
			return
		}
		if c.cb.RecorderVisible != nil && c.cb.RecorderVisible() {
			return
		}
		c.guardedToggle()
		return
	}

	if fam.pressStart.IsZero() {
		return
	}
	duration := at.Sub(fam.pressStart)
	fam.pressStart = time.Time{}

	if duration < c.cfg.HoldThreshold {
		fam.handsFree = true
		return
	}
	c.guardedToggle()
}

// guardedToggle invokes the toggle action unless the session is busy with a
// previous recording's output pipeline.
func (c *Controller) guardedToggle() {
	if c.cb.CanProcess != nil && !c.cb.CanProcess() {
		c.logger.Debug("hotkey ignored, session busy")
		return
	}
	if c.cb.Toggle != nil {
		c.cb.Toggle()
	}
}

// modifierSlot finds the slot bound to the given modifier key.
func (c *Controller) modifierSlot(key ModifierKey) (int, bool) {
	for i, s := range c.cfg.Slots {
		if s.Kind == SlotModifier && s.Modifier == key {
			return i, true
		}
	}
	return 0, false
}

// isChordSlot reports whether the slot index is bound to a chord.
func (c *Controller) isChordSlot(slot int) bool {
	return slot >= 0 && slot < len(c.cfg.Slots) && c.cfg.Slots[slot].Kind == SlotChord
}
