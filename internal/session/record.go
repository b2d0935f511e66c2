// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     session
// Description: Transcription record lifecycle
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package session

import "time"

// Record statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Record is one transcription, from capture start to finalized text. The
// session owns the in-memory draft; the store owns it after finalization.
// A cancelled session deletes its record instead of finalizing it.
type Record struct {
	ID        string
	CreatedAt time.Time
	Status    string

	RawText      string
	EnhancedText string
	AudioPath    string

	Engine  string
	ModelID string

	TranscribeDuration time.Duration
	EnhanceDuration    time.Duration

	PromptID string

	// ErrorDetail carries the human-readable failure description for
	// failed records.
	ErrorDetail string

	// EnhancementNote records a swallowed enhancement failure on an
	// otherwise completed record.
	EnhancementNote string
}

// FinalText returns the text that was (or would be) delivered: enhanced if
// present, otherwise raw.
func (r *Record) FinalText() string {
	if r.EnhancedText != "" {
		return r.EnhancedText
	}
	return r.RawText
}
