// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     hotkey
// Description: Global chord registration via golang.design/x/hotkey
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package hotkey

import (
	"fmt"
	"strings"

	xhotkey "golang.design/x/hotkey"
)

// ChordRegistrar registers a global chord and delivers key-down/key-up
// events until the returned unregister function is called.
type ChordRegistrar interface {
	Register(chord string, onDown func(), onUp func()) (func(), error)
}

// SystemRegistrar registers chords with the OS global shortcut facility.
type SystemRegistrar struct{}

// Register parses a chord like "ctrl+shift+d", registers it globally and
// pumps its events to the callbacks from a dedicated goroutine.
func (SystemRegistrar) Register(chord string, onDown func(), onUp func()) (func(), error) {
	mods, key, err := parseChord(chord)
	if err != nil {
		return nil, err
	}

	hk := xhotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("failed to register chord %q: %w", chord, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-hk.Keydown():
				onDown()
			case <-hk.Keyup():
				onUp()
			}
		}
	}()

	unregister := func() {
		close(done)
		hk.Unregister()
	}
	return unregister, nil
}

// parseChord converts "ctrl+shift+d" into hotkey modifiers and a key. The
// final element is the key; everything before it must be a modifier.
func parseChord(chord string) ([]xhotkey.Modifier, xhotkey.Key, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(chord)), "+")
	if len(parts) < 2 {
		return nil, 0, fmt.Errorf("chord %q needs at least one modifier and a key", chord)
	}

	var mods []xhotkey.Modifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.TrimSpace(p) {
		case "ctrl", "control":
			mods = append(mods, xhotkey.ModCtrl)
		case "shift":
			mods = append(mods, xhotkey.ModShift)
		case "alt", "option":
			mods = append(mods, modAlt)
		case "cmd", "command", "super", "win":
			mods = append(mods, modSuper)
		default:
			return nil, 0, fmt.Errorf("unknown modifier %q in chord %q", p, chord)
		}
	}

	key, ok := chordKeys[strings.TrimSpace(parts[len(parts)-1])]
	if !ok {
		return nil, 0, fmt.Errorf("unknown key %q in chord %q", parts[len(parts)-1], chord)
	}
	return mods, key, nil
}

// chordKeys maps key names to hotkey key codes.
var chordKeys = map[string]xhotkey.Key{
	"a": xhotkey.KeyA, "b": xhotkey.KeyB, "c": xhotkey.KeyC, "d": xhotkey.KeyD,
	"e": xhotkey.KeyE, "f": xhotkey.KeyF, "g": xhotkey.KeyG, "h": xhotkey.KeyH,
	"i": xhotkey.KeyI, "j": xhotkey.KeyJ, "k": xhotkey.KeyK, "l": xhotkey.KeyL,
	"m": xhotkey.KeyM, "n": xhotkey.KeyN, "o": xhotkey.KeyO, "p": xhotkey.KeyP,
	"q": xhotkey.KeyQ, "r": xhotkey.KeyR, "s": xhotkey.KeyS, "t": xhotkey.KeyT,
	"u": xhotkey.KeyU, "v": xhotkey.KeyV, "w": xhotkey.KeyW, "x": xhotkey.KeyX,
	"y": xhotkey.KeyY, "z": xhotkey.KeyZ,
	"0": xhotkey.Key0, "1": xhotkey.Key1, "2": xhotkey.Key2, "3": xhotkey.Key3,
	"4": xhotkey.Key4, "5": xhotkey.Key5, "6": xhotkey.Key6, "7": xhotkey.Key7,
	"8": xhotkey.Key8, "9": xhotkey.Key9,
	"space": xhotkey.KeySpace,
}

// Monitors owns the live chord registrations for the configured slots.
type Monitors struct {
	registrar   ChordRegistrar
	unregisters []func()
}

// NewMonitors creates chord monitors using the given registrar. A nil
// registrar uses the OS facility.
func NewMonitors(registrar ChordRegistrar) *Monitors {
	if registrar == nil {
		registrar = SystemRegistrar{}
	}
	return &Monitors{registrar: registrar}
}

// Bind registers every chord slot in cfg against the controller. Existing
// registrations are dropped first.
func (m *Monitors) Bind(cfg Config, c *Controller, clock Clock) error {
	m.Unbind()
	if clock == nil {
		clock = SystemClock()
	}

	for i, slot := range cfg.Slots {
		if slot.Kind != SlotChord || slot.Chord == "" {
			continue
		}
		idx := i
		unreg, err := m.registrar.Register(slot.Chord,
			func() { c.HandleChordDown(idx, clock.Now()) },
			func() { c.HandleChordUp(idx, clock.Now()) },
		)
		if err != nil {
			m.Unbind()
			return err
		}
		m.unregisters = append(m.unregisters, unreg)
	}
	return nil
}

// Unbind drops all live registrations.
func (m *Monitors) Unbind() {
	for _, u := range m.unregisters {
		u()
	}
	m.unregisters = nil
}
