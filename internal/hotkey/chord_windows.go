// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     hotkey
// Description: Platform modifier codes (Windows)
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package hotkey

import xhotkey "golang.design/x/hotkey"

const (
	modAlt   = xhotkey.ModAlt
	modSuper = xhotkey.ModWin
)
