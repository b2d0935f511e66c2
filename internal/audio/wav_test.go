package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestWAVWriter_HeaderAndData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	w, err := newWAVWriter(path, 16000)
	if err != nil {
		t.Fatalf("newWAVWriter() error = %v", err)
	}

	samples := []float32{0, 0.5, -0.5, 1.0, -1.0, 2.0, -2.0}
	if err := w.WriteSamples(samples); err != nil {
		t.Fatalf("WriteSamples() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(data) != wavHeaderSize+len(samples)*2 {
		t.Fatalf("file size = %d, want %d", len(data), wavHeaderSize+len(samples)*2)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE magic")
	}

	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
	if ch := binary.LittleEndian.Uint16(data[22:24]); ch != 1 {
		t.Errorf("channels = %d, want 1", ch)
	}
	if bits := binary.LittleEndian.Uint16(data[34:36]); bits != 16 {
		t.Errorf("bits per sample = %d, want 16", bits)
	}

	wantData := uint32(len(samples) * 2)
	if size := binary.LittleEndian.Uint32(data[40:44]); size != wantData {
		t.Errorf("data size = %d, want %d", size, wantData)
	}
	if size := binary.LittleEndian.Uint32(data[4:8]); size != 36+wantData {
		t.Errorf("riff size = %d, want %d", size, 36+wantData)
	}

	// Out-of-range samples clamp instead of wrapping.
	readSample := func(i int) int16 {
		return int16(binary.LittleEndian.Uint16(data[wavHeaderSize+i*2:]))
	}
	if got := readSample(5); got != 32767 {
		t.Errorf("sample 5 = %d, want clamped 32767", got)
	}
	if got := readSample(6); got != -32767 {
		t.Errorf("sample 6 = %d, want clamped -32767", got)
	}
}

func TestWAVWriter_MultipleWritesAccumulate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	w, err := newWAVWriter(path, 16000)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := w.WriteSamples(make([]float32, 100)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if size := binary.LittleEndian.Uint32(data[40:44]); size != 600 {
		t.Errorf("data size = %d, want 600", size)
	}
}
