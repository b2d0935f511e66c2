// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     tray
// Description: Menu bar presence with state-colored icon
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"fyne.io/systray"

	"github.com/zhangyu1818/typefree/internal/session"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// Callbacks are the app actions reachable from the tray menu.
type Callbacks struct {
	OnToggle         func()
	OnCopyLast       func()
	OnEnhancementSet func(enabled bool)
	OnQuit           func()
}

// Tray is the menu bar entry. The icon color mirrors the session state so
// the user always sees whether the mic is live.
type Tray struct {
	cb     Callbacks
	logger *logging.Logger

	menuStatus  *systray.MenuItem
	menuToggle  *systray.MenuItem
	menuCopy    *systray.MenuItem
	menuEnhance *systray.MenuItem
	menuQuit    *systray.MenuItem

	enhancementOn bool
}

// New creates the tray. Run must be called on the main goroutine.
func New(cb Callbacks, enhancementOn bool, logger *logging.Logger) *Tray {
	if logger == nil {
		logger = logging.New("tray")
	}
	return &Tray{cb: cb, enhancementOn: enhancementOn, logger: logger}
}

// Run starts the tray loop; it blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

func (t *Tray) onReady() {
	systray.SetIcon(stateIcon(session.StateIdle))
	systray.SetTooltip("TypeFree")

	t.menuStatus = systray.AddMenuItem("Status: idle", "Current session state")
	t.menuStatus.Disable()

	systray.AddSeparator()

	t.menuToggle = systray.AddMenuItem("Start Recording", "Toggle dictation")
	t.menuCopy = systray.AddMenuItem("Copy Last Transcription", "Put the most recent transcription on the clipboard")
	t.menuEnhance = systray.AddMenuItemCheckbox("AI Enhancement", "Rewrite transcripts with the configured prompt", t.enhancementOn)

	systray.AddSeparator()

	t.menuQuit = systray.AddMenuItem("Quit TypeFree", "Exit")

	go t.handleClicks()
}

func (t *Tray) handleClicks() {
	for {
		select {
		case <-t.menuToggle.ClickedCh:
			if t.cb.OnToggle != nil {
				t.cb.OnToggle()
			}
		case <-t.menuCopy.ClickedCh:
			if t.cb.OnCopyLast != nil {
				t.cb.OnCopyLast()
			}
		case <-t.menuEnhance.ClickedCh:
			t.enhancementOn = !t.enhancementOn
			if t.enhancementOn {
				t.menuEnhance.Check()
			} else {
				t.menuEnhance.Uncheck()
			}
			if t.cb.OnEnhancementSet != nil {
				t.cb.OnEnhancementSet(t.enhancementOn)
			}
		case <-t.menuQuit.ClickedCh:
			if t.cb.OnQuit != nil {
				t.cb.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

// SetState updates the icon and menu labels for a session state change.
// Safe to call from any goroutine once the tray is running.
func (t *Tray) SetState(state session.State) {
	systray.SetIcon(stateIcon(state))

	if t.menuStatus != nil {
		t.menuStatus.SetTitle("Status: " + state.String())
	}
	if t.menuToggle != nil {
		switch state {
		case session.StateRecording:
			t.menuToggle.SetTitle("Stop Recording")
			t.menuToggle.Enable()
		case session.StateIdle:
			t.menuToggle.SetTitle("Start Recording")
			t.menuToggle.Enable()
		default:
			t.menuToggle.SetTitle("Working...")
			t.menuToggle.Disable()
		}
	}
}

// SetTooltip updates the hover text, e.g. the live input level while
// recording.
func (t *Tray) SetTooltip(text string) {
	systray.SetTooltip(text)
}

// Quit tears the tray down.
func (t *Tray) Quit() {
	systray.Quit()
}

// stateIcon renders a filled dot in the state's color.
func stateIcon(state session.State) []byte {
	var c color.RGBA
	switch state {
	case session.StateRecording:
		c = color.RGBA{255, 59, 48, 255} // red: mic is live
	case session.StateTranscribing, session.StateEnhancing, session.StateBusy:
		c = color.RGBA{0, 122, 255, 255} // blue: working
	default:
		c = color.RGBA{200, 200, 200, 255} // gray: idle
	}

	const size = 22
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	center := float64(size-1) / 2
	radius := float64(size)/2 - 3

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, c)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
