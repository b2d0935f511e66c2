// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     notify
// Description: Notification delivery via notify-send on non-macOS platforms
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

//go:build !darwin

package notify

import (
	"fmt"
	"os/exec"
)

func postNotification(title, message string) error {
	if err := exec.Command("notify-send", title, message).Run(); err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}
	return nil
}
