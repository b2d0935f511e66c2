// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     audio
// Description: Incremental mono 16-bit PCM WAV writing
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package audio

import (
	"encoding/binary"
	"fmt"
	"os"
)

const wavHeaderSize = 44

// wavWriter streams float32 samples into a 16-bit PCM WAV file. The header
// is written with zero sizes up front and patched on Close, so a crash
// mid-recording leaves a recoverable file.
type wavWriter struct {
	f          *os.File
	sampleRate int
	dataBytes  uint32
}

func newWAVWriter(path string, sampleRate int) (*wavWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio file: %w", err)
	}

	w := &wavWriter{f: f, sampleRate: sampleRate}
	if err := w.writeHeader(); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	return w, nil
}

func (w *wavWriter) writeHeader() error {
	numChannels := uint16(1)
	bitsPerSample := uint16(16)
	byteRate := uint32(w.sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8
	blockAlign := numChannels * bitsPerSample / 8

	if _, err := w.f.Write([]byte("RIFF")); err != nil {
		return err
	}
	binary.Write(w.f, binary.LittleEndian, uint32(36)) // patched on Close
	w.f.Write([]byte("WAVE"))

	w.f.Write([]byte("fmt "))
	binary.Write(w.f, binary.LittleEndian, uint32(16))
	binary.Write(w.f, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(w.f, binary.LittleEndian, numChannels)
	binary.Write(w.f, binary.LittleEndian, uint32(w.sampleRate))
	binary.Write(w.f, binary.LittleEndian, byteRate)
	binary.Write(w.f, binary.LittleEndian, blockAlign)
	binary.Write(w.f, binary.LittleEndian, bitsPerSample)

	w.f.Write([]byte("data"))
	return binary.Write(w.f, binary.LittleEndian, uint32(0)) // patched on Close
}

// WriteSamples appends float32 samples as clamped int16 PCM.
func (w *wavWriter) WriteSamples(samples []float32) error {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		}
		if s < -1.0 {
			s = -1.0
		}
		v := int16(s * 32767)
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}

	if _, err := w.f.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	w.dataBytes += uint32(len(buf))
	return nil
}

// Close patches the header sizes and closes the file.
func (w *wavWriter) Close() error {
	if _, err := w.f.Seek(4, 0); err != nil {
		w.f.Close()
		return err
	}
	binary.Write(w.f, binary.LittleEndian, 36+w.dataBytes)

	if _, err := w.f.Seek(40, 0); err != nil {
		w.f.Close()
		return err
	}
	binary.Write(w.f, binary.LittleEndian, w.dataBytes)

	return w.f.Close()
}
