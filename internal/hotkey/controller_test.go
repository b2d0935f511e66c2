package hotkey

import (
	"testing"
	"time"
)

// fakeClock drives debounce timers manually.
type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// advance moves time forward, firing due timers in order.
func (c *fakeClock) advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.deadline.After(target) {
				continue
			}
			if next == nil || t.deadline.Before(next.deadline) {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.deadline
		next.fired = true
		next.f()
	}
	c.now = target
}

type harness struct {
	clock   *fakeClock
	ctrl    *Controller
	toggles int
	can     bool
	visible bool
}

func newHarness(cfg Config) *harness {
	h := &harness{clock: newFakeClock(), can: true}
	h.ctrl = NewController(cfg, Callbacks{
		Toggle:          func() { h.toggles++ },
		CanProcess:      func() bool { return h.can },
		RecorderVisible: func() bool { return h.visible },
	}, h.clock, nil)
	return h
}

func fnConfig() Config {
	cfg := DefaultConfig()
	cfg.Slots[0] = SlotBinding{Kind: SlotModifier, Modifier: ModifierFn}
	return cfg
}

func optionConfig() Config {
	cfg := DefaultConfig()
	cfg.Slots[0] = SlotBinding{Kind: SlotModifier, Modifier: ModifierOption}
	return cfg
}

func chordConfig() Config {
	cfg := DefaultConfig()
	cfg.Slots[0] = SlotBinding{Kind: SlotChord, Chord: "ctrl+shift+d"}
	return cfg
}

func (h *harness) modEvent(key ModifierKey, pressed bool) {
	var flags ModifierFlags
	if pressed {
		flags = flagBit(key)
	}
	h.ctrl.HandleModifierEvent(ModifierEvent{Key: key, Flags: flags, At: h.clock.Now()})
}

// Duplicate identical states are no-ops: at most one action per genuine
// transition.
func TestModifier_DuplicateStatesIgnored(t *testing.T) {
	h := newHarness(optionConfig())

	h.modEvent(ModifierOption, true)
	h.modEvent(ModifierOption, true)
	h.modEvent(ModifierOption, true)

	if h.toggles != 1 {
		t.Errorf("toggles = %d, want 1 (duplicates must be ignored)", h.toggles)
	}
}

func TestModifier_UnboundKeyIgnored(t *testing.T) {
	h := newHarness(optionConfig())

	h.modEvent(ModifierCommand, true)
	if h.toggles != 0 {
		t.Errorf("unbound modifier must be ignored, toggles = %d", h.toggles)
	}
}

// fn flag flicker within the settle window produces a single net action.
func TestFn_DebounceFlicker(t *testing.T) {
	h := newHarness(fnConfig())

	h.modEvent(ModifierFn, true)
	h.clock.advance(20 * time.Millisecond)
	h.modEvent(ModifierFn, false)
	h.clock.advance(20 * time.Millisecond)
	h.modEvent(ModifierFn, true)

	if h.toggles != 0 {
		t.Fatalf("debounced fn must not act before the settle window, toggles = %d", h.toggles)
	}

	h.clock.advance(100 * time.Millisecond)
	if h.toggles != 1 {
		t.Errorf("toggles = %d, want exactly 1 after settle", h.toggles)
	}
}

// A flicker that settles back to the current state produces no action.
func TestFn_DebounceSettlesToSameState(t *testing.T) {
	h := newHarness(fnConfig())

	h.modEvent(ModifierFn, true)
	h.clock.advance(100 * time.Millisecond) // pressed, toggled once
	h.visible = true

	h.modEvent(ModifierFn, false)
	h.clock.advance(10 * time.Millisecond)
	h.modEvent(ModifierFn, true) // back to pressed before settle
	h.clock.advance(100 * time.Millisecond)

	if h.toggles != 1 {
		t.Errorf("toggles = %d, want 1 (flicker settled to same state)", h.toggles)
	}
}

// A press/release pair under the threshold arms hands-free and never stops
// the recording; the next press performs exactly one toggle.
func TestModifier_HandsFreeArming(t *testing.T) {
	h := newHarness(optionConfig())

	h.modEvent(ModifierOption, true) // starts recording
	if h.toggles != 1 {
		t.Fatalf("press should toggle once, got %d", h.toggles)
	}
	h.visible = true

	h.clock.advance(500 * time.Millisecond)
	h.modEvent(ModifierOption, false) // brief: arms hands-free, no stop
	if h.toggles != 1 {
		t.Fatalf("brief release must not toggle, got %d", h.toggles)
	}

	h.clock.advance(5 * time.Second)
	h.modEvent(ModifierOption, true) // hands-free: stops with one toggle
	if h.toggles != 2 {
		t.Errorf("hands-free press should toggle exactly once, got %d", h.toggles)
	}
}

// A long hold toggles on release (push-to-talk).
func TestModifier_LongHoldTogglesOnRelease(t *testing.T) {
	h := newHarness(optionConfig())

	h.modEvent(ModifierOption, true)
	h.visible = true
	h.clock.advance(2 * time.Second)
	h.modEvent(ModifierOption, false)

	if h.toggles != 2 {
		t.Errorf("toggles = %d, want 2 (start + stop)", h.toggles)
	}
}

// While the output pipeline runs, no event may trigger an action.
func TestGuard_BlocksWhileBusy(t *testing.T) {
	h := newHarness(optionConfig())
	h.can = false

	h.modEvent(ModifierOption, true)
	h.clock.advance(2 * time.Second)
	h.modEvent(ModifierOption, false)

	if h.toggles != 0 {
		t.Errorf("toggles = %d, want 0 while busy", h.toggles)
	}
}

func TestGuard_BlocksChordWhileBusy(t *testing.T) {
	h := newHarness(chordConfig())
	h.can = false

	h.ctrl.HandleChordDown(0, h.clock.Now())
	if h.toggles != 0 {
		t.Errorf("toggles = %d, want 0 while busy", h.toggles)
	}
}

// Chord down at t=0, up at t=0.5s arms hands-free; down at t=1.0s fires one
// toggle.
func TestChord_HandsFreeScenario(t *testing.T) {
	h := newHarness(chordConfig())

	h.ctrl.HandleChordDown(0, h.clock.Now()) // t=0: starts recording
	if h.toggles != 1 {
		t.Fatalf("first chord down should toggle, got %d", h.toggles)
	}
	h.visible = true

	h.clock.advance(500 * time.Millisecond)
	h.ctrl.HandleChordUp(0, h.clock.Now()) // brief: arm hands-free
	if h.toggles != 1 {
		t.Fatalf("brief chord release must not toggle, got %d", h.toggles)
	}

	h.clock.advance(500 * time.Millisecond)
	h.ctrl.HandleChordDown(0, h.clock.Now()) // t=1.0s: one toggle
	if h.toggles != 2 {
		t.Errorf("toggles = %d, want 2", h.toggles)
	}
}

// Key-repeat duplicates inside the cooldown window are suppressed.
func TestChord_CooldownSuppressesRepeat(t *testing.T) {
	h := newHarness(chordConfig())

	h.ctrl.HandleChordDown(0, h.clock.Now())
	h.clock.advance(100 * time.Millisecond)
	h.ctrl.HandleChordDown(0, h.clock.Now()) // repeat, inside 500ms
	h.clock.advance(150 * time.Millisecond)
	h.ctrl.HandleChordDown(0, h.clock.Now()) // repeat, still inside

	if h.toggles != 1 {
		t.Errorf("toggles = %d, want 1 (cooldown must suppress repeats)", h.toggles)
	}
}

// Rebinding clears all slot state, timers and hands-free flags.
func TestRebind_ResetsState(t *testing.T) {
	h := newHarness(optionConfig())

	h.modEvent(ModifierOption, true)
	h.visible = true
	h.clock.advance(200 * time.Millisecond)
	h.modEvent(ModifierOption, false) // hands-free armed
	h.visible = false

	h.ctrl.Rebind(optionConfig())

	// After reset, a press must behave like a fresh start, not a
	// hands-free disarm.
	h.modEvent(ModifierOption, true)
	if h.toggles != 2 {
		t.Errorf("toggles = %d, want 2 (fresh start after rebind)", h.toggles)
	}
	h.visible = true
	h.clock.advance(300 * time.Millisecond)
	h.modEvent(ModifierOption, false)
	if h.toggles != 2 {
		t.Errorf("brief release after rebind must arm hands-free, toggles = %d", h.toggles)
	}
}

func TestChord_UpWithoutDownIgnored(t *testing.T) {
	h := newHarness(chordConfig())

	h.ctrl.HandleChordUp(0, h.clock.Now())
	if h.toggles != 0 {
		t.Errorf("release without press must be ignored, toggles = %d", h.toggles)
	}
}
