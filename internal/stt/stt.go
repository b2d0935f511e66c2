// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     stt
// Description: Speech-to-text engine interface
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package stt

import (
	"context"
	"time"
)

// Transcriber is the interface all transcription engines implement.
type Transcriber interface {
	// TranscribeFile transcribes a recorded WAV file.
	TranscribeFile(ctx context.Context, path string) (Result, error)

	// Close releases engine resources.
	Close() error
}

// Warmable is implemented by engines that benefit from loading their model
// before the first transcription.
type Warmable interface {
	// Warm prepares the engine so the first TranscribeFile call does not
	// pay the model load cost.
	Warm(ctx context.Context) error
}

// Result holds a transcription result.
type Result struct {
	// Text is the transcribed text.
	Text string

	// Language is the detected or requested language.
	Language string

	// Duration is the wall-clock time the engine spent.
	Duration time.Duration
}
