// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     hotkey
// Description: Platform modifier codes (Linux/X11)
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package hotkey

import xhotkey "golang.design/x/hotkey"

const (
	modAlt   = xhotkey.Mod1
	modSuper = xhotkey.Mod4
)
