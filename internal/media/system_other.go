// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     media
// Description: No-op mute and media control for non-macOS platforms
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

//go:build !darwin

package media

// NewSystemAudio returns a no-op mute control; only macOS is supported.
func NewSystemAudio() SystemAudio {
	return noopAudio{}
}

// NewPlayer returns a no-op media control.
func NewPlayer() Player {
	return noopPlayer{}
}

type noopAudio struct{}

func (noopAudio) Muted() (bool, error)  { return false, nil }
func (noopAudio) SetMuted(v bool) error { return nil }

type noopPlayer struct{}

func (noopPlayer) NowPlaying() (string, bool, error)     { return "", false, nil }
func (noopPlayer) Pause(app string) error                { return nil }
func (noopPlayer) Play(app string) error                 { return nil }
func (noopPlayer) Status(app string) (bool, bool, error) { return false, false, nil }
