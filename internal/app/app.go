// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     app
// Description: Composition root wiring capture, transcription, enhancement,
//              hotkeys and the tray together
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/zhangyu1818/typefree/internal/audio"
	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/internal/dispatch"
	"github.com/zhangyu1818/typefree/internal/enhance"
	"github.com/zhangyu1818/typefree/internal/hotkey"
	"github.com/zhangyu1818/typefree/internal/media"
	"github.com/zhangyu1818/typefree/internal/notify"
	"github.com/zhangyu1818/typefree/internal/paste"
	"github.com/zhangyu1818/typefree/internal/session"
	"github.com/zhangyu1818/typefree/internal/store"
	"github.com/zhangyu1818/typefree/internal/stt"
	"github.com/zhangyu1818/typefree/internal/tray"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// App owns every long-lived component and their wiring. Construction builds
// the object graph; Run blocks on the tray loop until quit.
type App struct {
	logger  *logging.Logger
	watcher *config.Watcher

	store      *store.HistoryStore
	dispatcher *dispatch.Dispatcher
	recorder   *audio.Recorder
	gate       *enhance.Gate
	session    *session.Session
	controller *hotkey.Controller
	monitors   *hotkey.Monitors
	tray       *tray.Tray

	// Voice activity auto-stop, rebuilt on config reload.
	vadMu    sync.Mutex
	vad      audio.Detector
	tracker  *audio.SpeechTracker
	vadBuf   []float32
	vadFrame int

	// Live partial-transcript stream, opened per recording.
	streamMu sync.Mutex
	stream   *stt.Stream

	closeOnce sync.Once
}

// New builds the application from the config file at path. A missing file
// runs on defaults.
func New(configPath string) (*App, error) {
	watcher, err := config.NewWatcher(configPath)
	if err != nil {
		return nil, err
	}
	cfg := watcher.Current()

	logger := logging.NewWithConfig(logging.Config{
		Name:   "app",
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	historyStore, err := store.NewHistoryStore(cfg.History, nil)
	if err != nil {
		return nil, err
	}
	if _, err := historyStore.EnforceRetention(cfg.History.RetentionDays); err != nil {
		logger.Warn("history retention failed", "error", err)
	}

	recorder, err := audio.NewRecorder(cfg.Audio, nil, nil)
	if err != nil {
		historyStore.Close()
		return nil, err
	}

	a := &App{
		logger:     logger,
		watcher:    watcher,
		store:      historyStore,
		dispatcher: dispatch.New(nil),
		recorder:   recorder,
		gate:       enhance.NewGate(cfg.Enhancement.Enabled, cfg.Enhancement.PromptID),
	}

	coordinator := media.NewCoordinator(
		media.NewSystemAudio(),
		media.NewPlayer(),
		func() config.AudioConfig { return a.watcher.Current().Audio },
		nil,
	)

	a.session = session.New(session.Deps{
		Recorder:    recorder,
		Transcriber: &engineRouter{dispatcher: a.dispatcher, settings: watcher.Current},
		Enhancer:    &enhancerProxy{settings: watcher.Current},
		Gate:        a.gate,
		Media:       coordinator,
		Paster:      paste.New(nil),
		Notifier:    notify.New(nil),
		Store:       historyStore,
	}, watcher.Current, nil)

	a.controller = hotkey.NewController(hotkeyConfig(cfg.Hotkeys), hotkey.Callbacks{
		Toggle:          a.session.Toggle,
		CanProcess:      a.session.CanProcessHotkey,
		RecorderVisible: a.session.Recording,
	}, nil, nil)
	a.monitors = hotkey.NewMonitors(nil)

	a.tray = tray.New(tray.Callbacks{
		OnToggle:   a.session.Toggle,
		OnCopyLast: a.copyLastTranscription,
		OnEnhancementSet: func(enabled bool) {
			a.gate.Set(enabled, a.gate.PromptID())
		},
		OnQuit: a.Close,
	}, cfg.Enhancement.Enabled, nil)

	a.session.Machine().AddListener(a.onStateChange)
	recorder.SetFrameFunc(a.onFrame)

	return a, nil
}

// Run starts config watching, hotkey bindings and the tray loop. It blocks
// until the user quits and must be called on the main goroutine.
func (a *App) Run() error {
	a.watcher.OnChange(a.applyConfig)
	if err := a.watcher.Start(); err != nil {
		a.logger.Warn("config watch unavailable", "error", err)
	}

	cfg := a.watcher.Current()

	if err := a.monitors.Bind(hotkeyConfig(cfg.Hotkeys), a.controller, nil); err != nil {
		a.logger.Warn("chord registration failed", "error", err)
	}
	a.setupVAD(cfg)

	// Warm the engine so the first session does not pay the load cost.
	go func() {
		if err := a.dispatcher.Preload(context.Background(), cfg.STT); err != nil {
			a.logger.Warn("engine preload failed", "error", err)
		}
	}()

	a.logger.Info("typefree running", "engine", cfg.STT.Engine)
	a.tray.Run()
	return nil
}

// HandleModifierEvent feeds one raw modifier flag-change event into the
// hotkey controller. The event source is platform glue outside this module.
func (a *App) HandleModifierEvent(ev hotkey.ModifierEvent) {
	a.controller.HandleModifierEvent(ev)
}

// Quit tears the app down and exits the tray loop, unblocking Run. Used by
// signal handlers; the tray's own quit item goes through Close directly.
func (a *App) Quit() {
	a.Close()
	a.tray.Quit()
}

// Close tears everything down. Safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.session.Recording() {
			a.session.Cancel()
		}

		a.monitors.Unbind()
		a.watcher.Stop()

		if err := a.recorder.Close(); err != nil {
			a.logger.Warn("recorder close", "error", err)
		}
		a.dispatcher.Release()

		a.vadMu.Lock()
		if a.vad != nil {
			a.vad.Close()
			a.vad = nil
		}
		a.vadMu.Unlock()

		if err := a.store.Close(); err != nil {
			a.logger.Warn("store close", "error", err)
		}
		a.logger.Info("typefree stopped")
	})
}

// applyConfig reacts to a config file reload: rebind hotkeys, reset the
// enhancement base state, swap capture settings and rebuild the detector.
func (a *App) applyConfig(cfg config.Config) {
	a.controller.Rebind(hotkeyConfig(cfg.Hotkeys))
	if err := a.monitors.Bind(hotkeyConfig(cfg.Hotkeys), a.controller, nil); err != nil {
		a.logger.Warn("chord registration failed", "error", err)
	}

	a.gate.Set(cfg.Enhancement.Enabled, cfg.Enhancement.PromptID)
	a.recorder.SetConfig(cfg.Audio)
	a.setupVAD(cfg)

	a.logger.Info("configuration reloaded")
}

// setupVAD rebuilds the voice activity detector from the settings.
func (a *App) setupVAD(cfg config.Config) {
	a.vadMu.Lock()
	defer a.vadMu.Unlock()

	if a.vad != nil {
		a.vad.Close()
		a.vad = nil
		a.tracker = nil
	}

	if !cfg.VAD.Enabled {
		return
	}

	vad, err := audio.NewWebRTCVAD(cfg.VAD, cfg.Audio.SampleRate)
	if err != nil {
		a.logger.Warn("voice activity detection unavailable", "error", err)
		return
	}
	a.vad = vad
	a.tracker = audio.NewSpeechTracker(cfg.VAD)
	// The detector wants 20 ms frames; capture buffers are rechunked.
	a.vadFrame = cfg.Audio.SampleRate / 50
	a.vadBuf = nil
}

// onStateChange mirrors session state into the tray and manages the
// per-recording taps.
func (a *App) onStateChange(oldState, newState session.State) {
	a.tray.SetState(newState)

	switch {
	case newState == session.StateRecording:
		a.beginTaps()
		go a.meterLoop()
	case oldState == session.StateRecording:
		a.endTaps()
	}

	if newState == session.StateIdle && oldState != session.StateIdle {
		go func() {
			days := a.watcher.Current().History.RetentionDays
			if _, err := a.store.EnforceRetention(days); err != nil {
				a.logger.Warn("history retention failed", "error", err)
			}
		}()
	}
}

// meterLoop publishes the input level to the tray tooltip while recording.
func (a *App) meterLoop() {
	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if !a.session.Recording() {
			a.tray.SetTooltip("TypeFree")
			return
		}
		avg, peak := a.recorder.Meter().Levels()
		a.tray.SetTooltip(fmt.Sprintf("Recording  %3.0f%% (peak %3.0f%%)", avg*100, peak*100))
	}
}

// copyLastTranscription puts the newest record's text on the clipboard.
func (a *App) copyLastTranscription() {
	records, err := a.store.List(1, 0)
	if err != nil || len(records) == 0 {
		a.logger.Debug("no transcription to copy", "error", err)
		return
	}
	if err := clipboard.WriteAll(records[0].FinalText()); err != nil {
		a.logger.Warn("clipboard write failed", "error", err)
	}
}

// beginTaps resets the silence tracker and opens the live transcript
// stream when the engine supports it.
func (a *App) beginTaps() {
	a.vadMu.Lock()
	if a.tracker != nil {
		a.tracker.Reset()
	}
	a.vadBuf = nil
	a.vadMu.Unlock()

	cfg := a.watcher.Current()
	if cfg.STT.Streaming && cfg.STT.Engine == config.EngineLocalAlt {
		go a.openStream(cfg)
	}
}

// endTaps flushes the live transcript stream.
func (a *App) endTaps() {
	a.streamMu.Lock()
	st := a.stream
	a.stream = nil
	a.streamMu.Unlock()

	if st != nil {
		st.CloseSend()
	}
}

// openStream connects the partial-transcript stream for one recording.
func (a *App) openStream(cfg config.Config) {
	st, err := stt.OpenStream(context.Background(), cfg.STT, cfg.Audio.SampleRate, a.logger)
	if err != nil {
		a.logger.Debug("transcript stream unavailable", "error", err)
		return
	}

	a.streamMu.Lock()
	if !a.session.Recording() {
		a.streamMu.Unlock()
		st.Close()
		return
	}
	a.stream = st
	a.streamMu.Unlock()

	go func() {
		for ev := range st.Events() {
			if ev.Final {
				a.logger.Info("live transcript", "text", ev.Text)
			} else {
				a.logger.Debug("live transcript partial", "text", ev.Text)
			}
		}
		st.Close()
	}()
}

// onFrame is the capture tap: it feeds the live stream and the silence
// auto-stop. Runs on the capture goroutine and must not block.
func (a *App) onFrame(samples []float32) {
	a.feedStream(samples)
	a.feedVAD(samples)
}

func (a *App) feedStream(samples []float32) {
	a.streamMu.Lock()
	st := a.stream
	a.streamMu.Unlock()

	if st == nil {
		return
	}
	if err := st.SendAudio(pcmBytes(samples)); err != nil {
		a.logger.Debug("stream send", "error", err)
	}
}

// feedVAD rechunks capture buffers into detector-sized frames and ends a
// recording once silence has lasted past the configured threshold.
func (a *App) feedVAD(samples []float32) {
	a.vadMu.Lock()
	defer a.vadMu.Unlock()

	if a.vad == nil || a.tracker == nil {
		return
	}

	a.vadBuf = append(a.vadBuf, samples...)
	for len(a.vadBuf) >= a.vadFrame {
		frame := a.vadBuf[:a.vadFrame]
		a.vadBuf = a.vadBuf[a.vadFrame:]

		isSpeech, err := a.vad.Process(frame)
		if err != nil {
			a.logger.Debug("vad process", "error", err)
			continue
		}
		a.tracker.Update(isSpeech)
	}

	if a.tracker.ShouldEndRecording() && a.session.Recording() {
		a.tracker.Reset()
		a.logger.Info("silence detected, ending recording")
		// Stop waits for the capture loop, which is this goroutine.
		go a.session.Stop()
	}
}

// engineRouter adapts the dispatcher to the session's transcriber port.
type engineRouter struct {
	dispatcher *dispatch.Dispatcher
	settings   func() config.Config
}

func (r *engineRouter) Transcribe(ctx context.Context, audioPath string) (session.Transcript, error) {
	started := time.Now()
	res, err := r.dispatcher.Transcribe(ctx, audioPath, r.settings().STT)
	if err != nil {
		return session.Transcript{}, err
	}

	duration := res.Duration
	if duration == 0 {
		duration = time.Since(started)
	}
	return session.Transcript{Text: res.Text, Duration: duration}, nil
}

// enhancerProxy builds the enhancement client from the live settings so a
// config reload switches models without restart.
type enhancerProxy struct {
	settings func() config.Config
}

func (p *enhancerProxy) Enhance(ctx context.Context, text string, prompt config.PromptConfig) (enhance.Result, error) {
	client := enhance.NewClient(p.settings().Enhancement, nil)
	return client.Enhance(ctx, text, prompt)
}

// hotkeyConfig maps the file settings onto the controller configuration.
func hotkeyConfig(hc config.HotkeyConfig) hotkey.Config {
	return hotkey.Config{
		Slots: [2]hotkey.SlotBinding{
			slotBinding(hc.SlotA),
			slotBinding(hc.SlotB),
		},
		HoldThreshold: time.Duration(hc.HoldThresholdMs) * time.Millisecond,
		FnDebounce:    time.Duration(hc.FnDebounceMs) * time.Millisecond,
		ChordCooldown: time.Duration(hc.ChordCooldownMs) * time.Millisecond,
	}
}

func slotBinding(sc config.SlotConfig) hotkey.SlotBinding {
	switch sc.Kind {
	case config.SlotModifier:
		return hotkey.SlotBinding{
			Kind:     hotkey.SlotModifier,
			Modifier: hotkey.ModifierKey(strings.ToLower(strings.TrimSpace(sc.Modifier))),
		}
	case config.SlotChord:
		return hotkey.SlotBinding{Kind: hotkey.SlotChord, Chord: sc.Chord}
	default:
		return hotkey.SlotBinding{}
	}
}

// pcmBytes converts float32 samples to 16-bit little-endian PCM.
func pcmBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		}
		if s < -1.0 {
			s = -1.0
		}
		v := int16(s * 32767)
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}
