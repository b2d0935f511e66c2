// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     dispatch
// Description: Routes transcription to the configured engine, reusing a
//              warm engine across sessions
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/internal/stt"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// Factory builds a transcription engine for the given settings. Tests
// substitute it to observe engine lifecycle.
type Factory func(cfg config.STTConfig, logger *logging.Logger) (stt.Transcriber, error)

// Dispatcher selects the engine matching the session's STT settings and
// runs a single transcription attempt. At most one engine is kept warm: a
// request for the same model reuses it, a different model releases the
// previous engine first.
type Dispatcher struct {
	mu      sync.Mutex
	factory Factory
	logger  *logging.Logger

	warmKey string
	warm    stt.Transcriber
}

// New creates a dispatcher with the standard engine factory.
func New(logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.New("dispatch")
	}
	return &Dispatcher{factory: buildEngine, logger: logger}
}

// NewWithFactory creates a dispatcher with a custom engine factory.
func NewWithFactory(factory Factory, logger *logging.Logger) *Dispatcher {
	d := New(logger)
	d.factory = factory
	return d
}

// Transcribe routes one audio file to the configured engine. Errors
// propagate unchanged; there are no retries at this layer.
func (d *Dispatcher) Transcribe(ctx context.Context, audioPath string, cfg config.STTConfig) (stt.Result, error) {
	engine, err := d.engineFor(ctx, cfg, false)
	if err != nil {
		return stt.Result{}, err
	}
	return engine.TranscribeFile(ctx, audioPath)
}

// Preload warms the configured engine so the first session does not pay
// the model load cost.
func (d *Dispatcher) Preload(ctx context.Context, cfg config.STTConfig) error {
	_, err := d.engineFor(ctx, cfg, true)
	return err
}

// Release closes the warm engine, if any.
func (d *Dispatcher) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseLocked()
}

// engineFor returns a warm engine for the settings, building one if the
// model identity changed since the last call.
func (d *Dispatcher) engineFor(ctx context.Context, cfg config.STTConfig, warmUp bool) (stt.Transcriber, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := engineKey(cfg)
	if d.warm != nil && d.warmKey == key {
		return d.warm, nil
	}

	// A different model releases the previous engine before loading.
	d.releaseLocked()

	engine, err := d.factory(cfg, d.logger)
	if err != nil {
		return nil, fmt.Errorf("engine %s: %w", cfg.Engine, err)
	}
	if warmUp {
		if w, ok := engine.(stt.Warmable); ok {
			if err := w.Warm(ctx); err != nil {
				engine.Close()
				return nil, fmt.Errorf("engine %s warm-up: %w", cfg.Engine, err)
			}
		}
	}

	d.warm = engine
	d.warmKey = key
	d.logger.Info("transcription engine ready", "engine", cfg.Engine, "key", key)
	return engine, nil
}

func (d *Dispatcher) releaseLocked() {
	if d.warm == nil {
		return
	}
	if err := d.warm.Close(); err != nil {
		d.logger.Warn("engine close", "key", d.warmKey, "error", err)
	}
	d.warm = nil
	d.warmKey = ""
}

// engineKey identifies the loaded model so reconfiguration is detected.
func engineKey(cfg config.STTConfig) string {
	switch cfg.Engine {
	case config.EngineLocal:
		return cfg.Engine + "/" + filepath.Base(cfg.LocalModelPath)
	case config.EngineLocalAlt:
		return cfg.Engine + "/" + cfg.AltServerURL + "/" + cfg.AltModel
	case config.EngineNative:
		return cfg.Engine + "/" + cfg.Language
	case config.EngineCloud:
		return cfg.Engine + "/" + cfg.CloudBaseURL + "/" + cfg.CloudModel
	default:
		return cfg.Engine
	}
}

// buildEngine is the production factory: an exhaustive switch over the
// four engine families.
func buildEngine(cfg config.STTConfig, logger *logging.Logger) (stt.Transcriber, error) {
	switch cfg.Engine {
	case config.EngineLocal:
		return stt.NewWhisperCLI(cfg, logger)
	case config.EngineLocalAlt:
		return stt.NewAltClient(cfg, logger), nil
	case config.EngineNative:
		return stt.NewNativeEngine(cfg, logger)
	case config.EngineCloud:
		return stt.NewCloudClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown transcription engine %q", cfg.Engine)
	}
}
