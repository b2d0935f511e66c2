// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     audio
// Description: Microphone capture to WAV using PortAudio
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// FrameFunc receives each captured buffer while recording. Used for VAD
// and live streaming; it must not block.
type FrameFunc func(samples []float32)

// Recorder captures microphone audio into a WAV file. One recording at a
// time; Start after Start fails until Stop.
type Recorder struct {
	mu      sync.Mutex
	cfg     config.AudioConfig
	meter   *Meter
	onFrame FrameFunc
	logger  *logging.Logger

	stream  *portaudio.Stream
	writer  *wavWriter
	running bool
	done    chan struct{}
}

// NewRecorder initializes PortAudio and creates a recorder.
func NewRecorder(cfg config.AudioConfig, meter *Meter, logger *logging.Logger) (*Recorder, error) {
	if logger == nil {
		logger = logging.New("audio")
	}
	if meter == nil {
		meter = NewMeter()
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &Recorder{cfg: cfg, meter: meter, logger: logger}, nil
}

// SetFrameFunc installs the per-buffer tap. Must be called before Start.
func (r *Recorder) SetFrameFunc(f FrameFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFrame = f
}

// SetConfig replaces the capture settings for future recordings.
func (r *Recorder) SetConfig(cfg config.AudioConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
}

// Meter returns the level meter fed by the capture loop.
func (r *Recorder) Meter() *Meter {
	return r.meter
}

// Start opens the input device and begins writing to path.
func (r *Recorder) Start(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("capture already running")
	}

	writer, err := newWAVWriter(path, r.cfg.SampleRate)
	if err != nil {
		return err
	}

	buffer := make([]float32, r.cfg.BufferSize)
	stream, err := r.openStream(buffer)
	if err != nil {
		writer.Close()
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		writer.Close()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	r.stream = stream
	r.writer = writer
	r.running = true
	r.done = make(chan struct{})

	go r.captureLoop(ctx, buffer, r.done)
	return nil
}

// openStream opens the resolved device, falling back through the priority
// list to the system default.
func (r *Recorder) openStream(buffer []float32) (*portaudio.Stream, error) {
	devices, err := ListInputDevices()
	if err != nil {
		r.logger.Warn("device enumeration failed, using default input", "error", err)
		devices = nil
	}

	name := PickDevice(devices, r.cfg.InputDevice, r.cfg.DevicePriority)
	if name != "" {
		if dev := findPortAudioDevice(name); dev != nil {
			params := portaudio.StreamParameters{
				Input: portaudio.StreamDeviceParameters{
					Device:   dev,
					Channels: 1,
					Latency:  dev.DefaultLowInputLatency,
				},
				SampleRate:      float64(r.cfg.SampleRate),
				FramesPerBuffer: r.cfg.BufferSize,
			}
			stream, err := portaudio.OpenStream(params, buffer)
			if err == nil {
				r.logger.Debug("opened input device", "device", name)
				return stream, nil
			}
			r.logger.Warn("failed to open device, falling back to default", "device", name, "error", err)
		}
	}

	return portaudio.OpenDefaultStream(1, 0, float64(r.cfg.SampleRate), r.cfg.BufferSize, buffer)
}

func findPortAudioDevice(name string) *portaudio.DeviceInfo {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil
	}
	for _, dev := range devices {
		if dev.Name == name && dev.MaxInputChannels > 0 {
			return dev
		}
	}
	return nil
}

// captureLoop reads buffers until Stop closes the stream.
func (r *Recorder) captureLoop(ctx context.Context, buffer []float32, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r.mu.Lock()
		if !r.running {
			r.mu.Unlock()
			return
		}
		stream := r.stream
		r.mu.Unlock()

		if err := stream.Read(); err != nil {
			r.mu.Lock()
			stillRunning := r.running
			r.mu.Unlock()
			if !stillRunning {
				return
			}
			continue
		}

		samples := make([]float32, len(buffer))
		copy(samples, buffer)

		r.mu.Lock()
		if r.writer != nil {
			if err := r.writer.WriteSamples(samples); err != nil {
				r.logger.Error("failed to write audio", "error", err)
			}
		}
		onFrame := r.onFrame
		r.mu.Unlock()

		r.meter.Update(samples)
		if onFrame != nil {
			onFrame(samples)
		}
	}
}

// Stop ends capture, finalizes the WAV file and resets the meter.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	stream := r.stream
	writer := r.writer
	done := r.done
	r.stream = nil
	r.writer = nil
	r.mu.Unlock()

	if stream != nil {
		if err := stream.Stop(); err != nil {
			r.logger.Warn("stream stop", "error", err)
		}
		stream.Close()
	}

	// Wait for the capture loop so no write races the file close.
	if done != nil {
		<-done
	}

	r.meter.Reset()

	if writer != nil {
		if err := writer.Close(); err != nil {
			return fmt.Errorf("failed to finalize audio file: %w", err)
		}
	}
	return nil
}

// Close stops any capture and tears PortAudio down.
func (r *Recorder) Close() error {
	if err := r.Stop(); err != nil {
		return err
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}
