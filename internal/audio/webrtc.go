// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     audio
// Description: WebRTC voice activity detector
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package audio

import (
	"fmt"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"

	"github.com/zhangyu1818/typefree/internal/config"
)

// WebRTCVAD wraps the WebRTC voice activity detector.
type WebRTCVAD struct {
	vad        *webrtcvad.VAD
	sampleRate int
}

// NewWebRTCVAD creates a detector from the VAD settings.
func NewWebRTCVAD(cfg config.VADConfig, sampleRate int) (*WebRTCVAD, error) {
	switch sampleRate {
	case 8000, 16000, 32000, 48000:
	default:
		return nil, fmt.Errorf("VAD does not support sample rate %d", sampleRate)
	}

	vad, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create VAD: %w", err)
	}

	mode := cfg.Mode
	if mode < 0 {
		mode = 0
	}
	if mode > 3 {
		mode = 3
	}
	if err := vad.SetMode(mode); err != nil {
		return nil, fmt.Errorf("failed to set VAD mode: %w", err)
	}

	return &WebRTCVAD{vad: vad, sampleRate: sampleRate}, nil
}

// Process converts a buffer to int16 PCM and runs the detector. The buffer
// must be a 10, 20 or 30ms frame at the configured sample rate.
func (w *WebRTCVAD) Process(samples []float32) (bool, error) {
	frame := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		}
		if s < -1.0 {
			s = -1.0
		}
		v := int16(s * 32767)
		frame[i*2] = byte(v)
		frame[i*2+1] = byte(v >> 8)
	}

	active, err := w.vad.Process(w.sampleRate, frame)
	if err != nil {
		return false, fmt.Errorf("VAD processing failed: %w", err)
	}
	return active, nil
}

// Close releases resources.
func (w *WebRTCVAD) Close() error {
	return nil
}
