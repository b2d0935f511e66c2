// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     notify
// Description: macOS notification delivery via osascript
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package notify

import (
	"fmt"
	"os/exec"
)

func postNotification(title, message string) error {
	script := fmt.Sprintf("display notification %q with title %q", message, title)
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}
