// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     audio
// Description: Input level metering for the recording indicator
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package audio

import (
	"math"
	"sync"
)

// meterFloorDB is the decibel floor mapped to a level of zero.
const meterFloorDB = -60.0

// Meter publishes normalized input levels while recording. The capture
// loop writes on every buffer; the UI reads at its own pace.
type Meter struct {
	mu      sync.RWMutex
	average float64
	peak    float64
}

// NewMeter creates a meter at zero.
func NewMeter() *Meter {
	return &Meter{}
}

// Update recomputes the levels from one buffer of samples.
func (m *Meter) Update(samples []float32) {
	if len(samples) == 0 {
		return
	}

	var sumSquares, peak float64
	for _, s := range samples {
		v := float64(s)
		sumSquares += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))

	m.mu.Lock()
	m.average = normalizeDB(amplitudeDB(rms))
	m.peak = normalizeDB(amplitudeDB(peak))
	m.mu.Unlock()
}

// Levels returns the current normalized average and peak power in [0,1].
func (m *Meter) Levels() (average, peak float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.average, m.peak
}

// Reset zeroes the meter; called when recording stops.
func (m *Meter) Reset() {
	m.mu.Lock()
	m.average = 0
	m.peak = 0
	m.mu.Unlock()
}

// amplitudeDB converts a linear amplitude to decibels.
func amplitudeDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return meterFloorDB
	}
	return 20 * math.Log10(amplitude)
}

// normalizeDB maps [-60dB, 0dB] onto [0, 1].
func normalizeDB(db float64) float64 {
	v := (db - meterFloorDB) / -meterFloorDB
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
