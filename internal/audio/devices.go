// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     audio
// Description: Input device enumeration and priority fallback
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Device describes one selectable input device.
type Device struct {
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
}

// ListInputDevices enumerates input-capable devices. PortAudio must be
// initialized by the caller (the recorder keeps it initialized while the
// app runs).
func ListInputDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	defaultInput, _ := portaudio.DefaultInputDevice()
	var defaultName string
	if defaultInput != nil {
		defaultName = defaultInput.Name
	}

	var inputs []Device
	for _, dev := range devices {
		if dev.MaxInputChannels > 0 {
			inputs = append(inputs, Device{
				Name:              dev.Name,
				MaxInputChannels:  dev.MaxInputChannels,
				DefaultSampleRate: dev.DefaultSampleRate,
				IsDefault:         dev.Name == defaultName,
			})
		}
	}
	return inputs, nil
}

// PickDevice resolves which input device to open: the preferred device if
// present, otherwise the first available entry of the priority list,
// otherwise the system default. An empty result means "open the default
// stream".
func PickDevice(devices []Device, preferred string, priority []string) string {
	if preferred != "" && preferred != "default" {
		for _, d := range devices {
			if d.Name == preferred {
				return d.Name
			}
		}
	}

	for _, want := range priority {
		for _, d := range devices {
			if d.Name == want {
				return d.Name
			}
		}
	}

	for _, d := range devices {
		if d.IsDefault {
			return d.Name
		}
	}
	return ""
}
