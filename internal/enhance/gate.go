// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     enhance
// Description: Decides whether the LLM enhancement phase runs
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package enhance

import "sync"

// Gate holds the live enhancement-enabled flag and selected prompt. A
// trigger word may arm enhancement for a single session; the prior state is
// restored afterward so trigger arming never leaks into later sessions.
type Gate struct {
	mu       sync.Mutex
	enabled  bool
	promptID string
	saved    *savedState
}

type savedState struct {
	enabled  bool
	promptID string
}

// NewGate creates a gate from the persisted settings.
func NewGate(enabled bool, promptID string) *Gate {
	return &Gate{enabled: enabled, promptID: promptID}
}

// Set updates the persisted base state, e.g. after a config reload. Any
// pending trigger arming is dropped.
func (g *Gate) Set(enabled bool, promptID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enabled = enabled
	g.promptID = promptID
	g.saved = nil
}

// ArmTrigger enables enhancement with the given prompt for the current
// session, remembering the prior state for Restore.
func (g *Gate) ArmTrigger(promptID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.saved == nil {
		g.saved = &savedState{enabled: g.enabled, promptID: g.promptID}
	}
	g.enabled = true
	g.promptID = promptID
}

// Restore reverts any trigger arming. Safe to call when nothing was armed.
func (g *Gate) Restore() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.saved == nil {
		return
	}
	g.enabled = g.saved.enabled
	g.promptID = g.saved.promptID
	g.saved = nil
}

// Enabled reports the current enhancement-enabled flag.
func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// PromptID returns the currently selected prompt.
func (g *Gate) PromptID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.promptID
}

// ShouldRun reports whether the enhancement phase applies: enhancement must
// be enabled (explicitly or trigger-armed) and a provider configured.
func (g *Gate) ShouldRun(configured bool) bool {
	return g.Enabled() && configured
}
