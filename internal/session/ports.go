// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     session
// Description: Capability interfaces the session depends on
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package session

import (
	"context"
	"time"
)

// Recorder captures microphone audio into a file.
type Recorder interface {
	Start(ctx context.Context, path string) error
	Stop() error
}

// Transcript is the normalized transcription result handed to the session.
type Transcript struct {
	Text     string
	ModelID  string
	Duration time.Duration
}

// Transcriber converts a recorded audio file to text. The call may take
// seconds; the session abandons the result on cancellation rather than
// aborting the call itself.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Transcript, error)
}

// Media pauses competing audio around a recording. Both calls are
// best-effort and must never fail the session.
type Media interface {
	Begin(ctx context.Context)
	End(ctx context.Context)
}

// Paster delivers finalized text at the cursor.
type Paster interface {
	Paste(text string) error
	PressReturn() error
}

// Notifier surfaces user-visible messages, fire-and-forget.
type Notifier interface {
	Info(title, message string)
	Warn(title, message string)
	Error(title, message string)
}

// Store persists transcription records.
type Store interface {
	Insert(rec *Record) error
	Save(rec *Record) error
	Delete(id string) error
}
