// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     paste
// Description: Delivers finalized text at the cursor via clipboard + paste
//              keystroke
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package paste

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/zhangyu1818/typefree/pkg/logging"
)

// Keystroker sends synthetic key events to the focused app.
type Keystroker interface {
	// PasteChord presses the platform paste shortcut.
	PasteChord() error

	// Return presses the return key.
	Return() error
}

// Injector pastes text at the cursor: the text goes to the clipboard and a
// paste keystroke is sent to the focused app.
type Injector struct {
	keys   Keystroker
	write  func(string) error
	logger *logging.Logger
}

// New creates the platform injector.
func New(logger *logging.Logger) *Injector {
	if logger == nil {
		logger = logging.New("paste")
	}
	return &Injector{
		keys:   newKeystroker(),
		write:  clipboard.WriteAll,
		logger: logger,
	}
}

// Paste puts text on the clipboard and sends the paste keystroke. On
// keystroke failure the text stays on the clipboard so nothing is lost.
func (i *Injector) Paste(text string) error {
	if err := i.write(text); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	if err := i.keys.PasteChord(); err != nil {
		return fmt.Errorf("paste keystroke failed: %w", err)
	}
	i.logger.Debug("pasted text", "chars", len(text))
	return nil
}

// PressReturn sends a return keystroke for auto-send.
func (i *Injector) PressReturn() error {
	if err := i.keys.Return(); err != nil {
		return fmt.Errorf("return keystroke failed: %w", err)
	}
	return nil
}
