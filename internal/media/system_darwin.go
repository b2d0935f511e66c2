// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     media
// Description: macOS mute and media control via osascript
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package media

import (
	"fmt"
	"os/exec"
	"strings"
)

// playerApps are the media apps the coordinator knows how to control.
var playerApps = []string{"Music", "Spotify"}

// OSAudio controls macOS output mute through AppleScript.
type OSAudio struct{}

// NewSystemAudio returns the platform mute control.
func NewSystemAudio() SystemAudio {
	return &OSAudio{}
}

func (a *OSAudio) Muted() (bool, error) {
	out, err := runOSAScript("output muted of (get volume settings)")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "true", nil
}

func (a *OSAudio) SetMuted(muted bool) error {
	_, err := runOSAScript(fmt.Sprintf("set volume output muted %t", muted))
	return err
}

// OSPlayer controls Music and Spotify through AppleScript.
type OSPlayer struct{}

// NewPlayer returns the platform media control.
func NewPlayer() Player {
	return &OSPlayer{}
}

func (p *OSPlayer) NowPlaying() (string, bool, error) {
	for _, app := range playerApps {
		running, playing, err := p.Status(app)
		if err != nil {
			continue
		}
		if running && playing {
			return app, true, nil
		}
	}
	return "", false, nil
}

func (p *OSPlayer) Pause(app string) error {
	_, err := runOSAScript(fmt.Sprintf("tell application %q to pause", app))
	return err
}

func (p *OSPlayer) Play(app string) error {
	_, err := runOSAScript(fmt.Sprintf("tell application %q to play", app))
	return err
}

func (p *OSPlayer) Status(app string) (bool, bool, error) {
	out, err := runOSAScript(fmt.Sprintf(
		`tell application "System Events" to (name of processes) contains %q`, app))
	if err != nil {
		return false, false, err
	}
	if strings.TrimSpace(out) != "true" {
		return false, false, nil
	}

	out, err = runOSAScript(fmt.Sprintf("tell application %q to player state as string", app))
	if err != nil {
		return true, false, err
	}
	return true, strings.TrimSpace(out) == "playing", nil
}

func runOSAScript(script string) (string, error) {
	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		return "", fmt.Errorf("osascript: %w", err)
	}
	return string(out), nil
}
