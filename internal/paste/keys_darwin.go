// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     paste
// Description: macOS keystroke synthesis via osascript
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package paste

import (
	"fmt"
	"os/exec"
)

type osaKeys struct{}

func newKeystroker() Keystroker {
	return osaKeys{}
}

func (osaKeys) PasteChord() error {
	return runKeystroke(`tell application "System Events" to keystroke "v" using command down`)
}

func (osaKeys) Return() error {
	// Key code 36 is the return key.
	return runKeystroke(`tell application "System Events" to key code 36`)
}

func runKeystroke(script string) error {
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}
