// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     paste
// Description: Keystroke synthesis via xdotool on non-macOS platforms
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

//go:build !darwin

package paste

import (
	"fmt"
	"os/exec"
)

type xdoKeys struct{}

func newKeystroker() Keystroker {
	return xdoKeys{}
}

func (xdoKeys) PasteChord() error {
	return runXdotool("key", "--clearmodifiers", "ctrl+v")
}

func (xdoKeys) Return() error {
	return runXdotool("key", "--clearmodifiers", "Return")
}

func runXdotool(args ...string) error {
	if err := exec.Command("xdotool", args...).Run(); err != nil {
		return fmt.Errorf("xdotool: %w", err)
	}
	return nil
}
