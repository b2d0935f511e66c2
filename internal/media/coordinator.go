// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     media
// Description: Pauses competing audio around a recording, best-effort
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package media

import (
	"context"
	"sync"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// SystemAudio controls the system output mute state.
type SystemAudio interface {
	Muted() (bool, error)
	SetMuted(muted bool) error
}

// Player observes and controls the frontmost media app.
type Player interface {
	// NowPlaying returns the identity of the app currently playing, if any.
	NowPlaying() (app string, playing bool, err error)
	Pause(app string) error
	Play(app string) error
	// Status reports whether the app is still running and playing.
	Status(app string) (running, playing bool, err error)
}

// Coordinator mutes system output and pauses playing media while a
// recording runs, then undoes only what it did itself. Every call is
// best-effort: failures are logged and swallowed, never surfaced.
type Coordinator struct {
	mu       sync.Mutex
	audio    SystemAudio
	player   Player
	settings func() config.AudioConfig
	logger   *logging.Logger

	// weMuted is set only when the coordinator performed the mute, so a
	// user who was already muted is never unmuted behind their back.
	weMuted bool

	// pausedApp is the identity of the app the coordinator paused; resume
	// targets only this app.
	pausedApp string
}

// NewCoordinator creates a coordinator over the platform controls.
func NewCoordinator(audio SystemAudio, player Player, settings func() config.AudioConfig, logger *logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.New("media")
	}
	return &Coordinator{audio: audio, player: player, settings: settings, logger: logger}
}

// Begin quiets the environment before capture starts.
func (c *Coordinator) Begin(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.settings()

	if cfg.MuteSystemAudio && c.audio != nil {
		muted, err := c.audio.Muted()
		switch {
		case err != nil:
			c.logger.Debug("mute state query failed", "error", err)
		case muted:
			// Already muted by the user; leave it that way afterwards.
			c.weMuted = false
		default:
			if err := c.audio.SetMuted(true); err != nil {
				c.logger.Debug("mute failed", "error", err)
			} else {
				c.weMuted = true
			}
		}
	}

	if cfg.PauseMedia && c.player != nil {
		app, playing, err := c.player.NowPlaying()
		if err != nil {
			c.logger.Debug("now-playing query failed", "error", err)
		} else if playing {
			if err := c.player.Pause(app); err != nil {
				c.logger.Debug("pause failed", "app", app, "error", err)
			} else {
				c.pausedApp = app
				c.logger.Debug("paused media", "app", app)
			}
		}
	}
}

// End restores what Begin changed: unmute only if the coordinator muted,
// resume only if the same app is still running and still paused.
func (c *Coordinator) End(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.weMuted && c.audio != nil {
		if err := c.audio.SetMuted(false); err != nil {
			c.logger.Debug("unmute failed", "error", err)
		}
	}
	c.weMuted = false

	if c.pausedApp != "" && c.player != nil {
		running, playing, err := c.player.Status(c.pausedApp)
		switch {
		case err != nil:
			c.logger.Debug("status query failed", "app", c.pausedApp, "error", err)
		case !running:
			// The app quit during recording; nothing to resume.
		case playing:
			// The user already resumed it (or started something else in
			// the same app); don't interfere.
		default:
			if err := c.player.Play(c.pausedApp); err != nil {
				c.logger.Debug("resume failed", "app", c.pausedApp, "error", err)
			}
		}
	}
	c.pausedApp = ""
}
