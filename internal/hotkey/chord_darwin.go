// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     hotkey
// Description: Platform modifier codes (macOS)
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package hotkey

import xhotkey "golang.design/x/hotkey"

const (
	modAlt   = xhotkey.ModOption
	modSuper = xhotkey.ModCmd
)
