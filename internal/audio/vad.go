// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     audio
// Description: Voice activity tracking for silence auto-stop
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package audio

import (
	"time"

	"github.com/zhangyu1818/typefree/internal/config"
)

// Detector reports whether a buffer of samples contains speech.
type Detector interface {
	Process(samples []float32) (bool, error)
	Close() error
}

// SpeechTracker accumulates per-buffer VAD decisions into an auto-stop
// signal: once speech has been heard for the minimum duration and silence
// has lasted past the threshold, the recording should end.
type SpeechTracker struct {
	silenceThreshold time.Duration
	minSpeech        time.Duration
	now              func() time.Time

	speechStarted bool
	speechStart   time.Time
	silenceStart  time.Time
}

// NewSpeechTracker creates a tracker from the VAD settings.
func NewSpeechTracker(cfg config.VADConfig) *SpeechTracker {
	return &SpeechTracker{
		silenceThreshold: time.Duration(cfg.SilenceDurationMs) * time.Millisecond,
		minSpeech:        time.Duration(cfg.MinSpeechDurationMs) * time.Millisecond,
		now:              time.Now,
	}
}

// Update feeds one VAD decision into the tracker.
func (t *SpeechTracker) Update(isSpeech bool) {
	now := t.now()

	if isSpeech {
		if !t.speechStarted {
			t.speechStarted = true
			t.speechStart = now
		}
		t.silenceStart = time.Time{}
		return
	}

	if t.speechStarted && t.silenceStart.IsZero() {
		t.silenceStart = now
	}
}

// ShouldEndRecording reports whether the silence threshold has been
// reached after valid speech.
func (t *SpeechTracker) ShouldEndRecording() bool {
	if !t.speechStarted || t.silenceStart.IsZero() {
		return false
	}
	now := t.now()
	return now.Sub(t.silenceStart) >= t.silenceThreshold &&
		t.silenceStart.Sub(t.speechStart) >= t.minSpeech
}

// Reset clears all tracked state for the next recording.
func (t *SpeechTracker) Reset() {
	t.speechStarted = false
	t.speechStart = time.Time{}
	t.silenceStart = time.Time{}
}
