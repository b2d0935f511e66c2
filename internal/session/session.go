// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     session
// Description: Recording session orchestration: capture, transcription,
//              enhancement, paste, cancellation
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/internal/enhance"
	"github.com/zhangyu1818/typefree/internal/textproc"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// ErrNotIdle is returned when a start is requested while a session is
// already active or tearing down.
var ErrNotIdle = errors.New("session already active")

// Deps are the external capabilities the session coordinates. All of them
// are injected so tests can substitute fakes.
type Deps struct {
	Recorder    Recorder
	Transcriber Transcriber
	Enhancer    enhance.Enhancer
	Gate        *enhance.Gate
	Media       Media
	Paster      Paster
	Notifier    Notifier
	Store       Store
}

// run is the per-session state: the draft record, the settings snapshot
// taken at start, and the cooperative cancellation flag.
type run struct {
	record    *Record
	snap      config.Config
	cancelled atomic.Bool
}

// Session drives one recording at a time through the state machine. Hotkey
// callbacks land on Toggle; the output pipeline runs on its own goroutine
// and checks for cancellation at every phase boundary.
type Session struct {
	mu       sync.Mutex
	machine  *Machine
	settings func() config.Config
	deps     Deps
	logger   *logging.Logger

	// sleep is the paste settle delay, injectable for tests.
	sleep func(time.Duration)

	active *run
}

// New creates a session coordinator. settings must return the current
// configuration; a snapshot is taken once per session at start.
func New(deps Deps, settings func() config.Config, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.New("session")
	}
	return &Session{
		machine:  NewMachine(),
		settings: settings,
		deps:     deps,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Machine exposes the state machine for listeners and state reads.
func (s *Session) Machine() *Machine {
	return s.machine
}

// State returns the current session state.
func (s *Session) State() State {
	return s.machine.Current()
}

// CanProcessHotkey reports whether hotkey actions are accepted right now.
func (s *Session) CanProcessHotkey() bool {
	return s.machine.CanProcessHotkey()
}

// Recording reports whether capture is in progress.
func (s *Session) Recording() bool {
	return s.machine.Current() == StateRecording
}

// Toggle is the single entry point for hotkey intents: start when idle,
// stop when recording. States that reject hotkeys never reach here, but a
// racing toggle during the output pipeline cancels rather than starting a
// second session.
func (s *Session) Toggle() {
	switch s.machine.Current() {
	case StateIdle:
		if err := s.Start(); err != nil && !errors.Is(err, ErrNotIdle) {
			s.logger.Warn("session start rejected", "error", err)
		}
	case StateRecording:
		s.Stop()
	case StateTranscribing, StateEnhancing:
		s.Cancel()
	}
}

// Start begins a new recording session: snapshot settings, quiet competing
// media, start capture and insert a pending record.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.settings()
	if err := validateEngine(snap.STT); err != nil {
		s.deps.Notifier.Error("Cannot start recording", err.Error())
		return err
	}

	if !s.machine.Transition(StateRecording) {
		return ErrNotIdle
	}

	r := &run{snap: snap}
	r.record = &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Status:    StatusPending,
		Engine:    snap.STT.Engine,
		ModelID:   modelIdentity(snap.STT),
	}

	if err := os.MkdirAll(snap.Audio.RecordingsDir, 0o755); err != nil {
		s.abortStart(r, fmt.Errorf("recordings directory: %w", err))
		return err
	}
	r.record.AudioPath = filepath.Join(snap.Audio.RecordingsDir, r.record.ID+".wav")

	s.deps.Media.Begin(context.Background())

	if err := s.deps.Recorder.Start(context.Background(), r.record.AudioPath); err != nil {
		s.deps.Media.End(context.Background())
		s.abortStart(r, fmt.Errorf("audio capture: %w", err))
		return err
	}

	if err := s.deps.Store.Insert(r.record); err != nil {
		s.logger.Warn("failed to insert pending record", "error", err)
	}

	s.active = r
	s.logger.Info("recording started", "id", r.record.ID, "engine", r.record.Engine, "model", r.record.ModelID)
	return nil
}

// abortStart unwinds a start that failed before capture was established.
// No record was persisted, so there is nothing to delete.
func (s *Session) abortStart(r *run, err error) {
	s.machine.Transition(StateBusy)
	s.machine.Transition(StateIdle)
	s.deps.Notifier.Error("Recording failed", err.Error())
	s.logger.Error("session aborted at start", "error", err)
}

// Stop ends capture and hands the audio to the output pipeline, which runs
// asynchronously.
func (s *Session) Stop() {
	s.mu.Lock()
	r := s.active
	if r == nil || !s.machine.Transition(StateTranscribing) {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.deps.Recorder.Stop(); err != nil {
		s.logger.Warn("recorder stop", "error", err)
	}

	go s.process(r)
}

// Cancel requests cancellation of the active session. While recording it
// tears down immediately; once the output pipeline is in flight the flag
// is cooperative, observed at the next phase boundary, and the in-flight
// provider call is left to finish on its own.
func (s *Session) Cancel() {
	s.mu.Lock()
	r := s.active
	state := s.machine.Current()
	s.mu.Unlock()

	if r == nil {
		return
	}

	switch state {
	case StateRecording:
		r.cancelled.Store(true)
		s.machine.Transition(StateBusy)
		if err := s.deps.Recorder.Stop(); err != nil {
			s.logger.Warn("recorder stop", "error", err)
		}
		s.discard(r)
	case StateTranscribing, StateEnhancing:
		r.cancelled.Store(true)
		s.logger.Info("cancellation requested", "id", r.record.ID, "state", state.String())
	}
}

// process runs transcription, post-processing, optional enhancement and
// paste. Cancellation is checked after each provider call returns and once
// more before paste; a cancelled run's output is discarded, never persisted
// or pasted.
func (s *Session) process(r *run) {
	tr, err := s.deps.Transcriber.Transcribe(context.Background(), r.record.AudioPath)
	if r.cancelled.Load() {
		s.discard(r)
		return
	}
	if err != nil {
		r.record.Status = StatusFailed
		r.record.ErrorDetail = err.Error()
		if serr := s.deps.Store.Save(r.record); serr != nil {
			s.logger.Warn("failed to save record", "error", serr)
		}
		s.deps.Notifier.Error("Transcription failed", err.Error())
		s.logger.Error("transcription failed", "id", r.record.ID, "error", err)
		s.finish(r)
		return
	}

	r.record.RawText = tr.Text
	r.record.TranscribeDuration = tr.Duration
	if tr.ModelID != "" {
		r.record.ModelID = tr.ModelID
	}

	pipe := textproc.NewPipeline(textproc.Options{
		FormatText: r.snap.Output.TextFormatting,
		Vocabulary: r.snap.Vocabulary,
		Prompts:    triggerPrompts(r.snap.Enhancement.Prompts),
	}, s.logger)
	res := pipe.Process(tr.Text)
	text := res.Text
	r.record.RawText = text

	if res.Trigger != nil {
		s.deps.Gate.ArmTrigger(res.Trigger.PromptID)
	}

	if text == "" {
		s.logger.Info("empty transcript, nothing to deliver", "id", r.record.ID)
		s.discard(r)
		return
	}

	if s.deps.Enhancer != nil && s.deps.Gate.ShouldRun(r.snap.Enhancement.Configured()) {
		text = s.enhanceText(r, text)
		if r.cancelled.Load() {
			s.discard(r)
			return
		}
	}

	if r.cancelled.Load() {
		s.discard(r)
		return
	}

	r.record.Status = StatusCompleted
	if err := s.deps.Store.Save(r.record); err != nil {
		s.logger.Warn("failed to save record", "error", err)
	}

	s.paste(r, text)
	s.finish(r)
}

// enhanceText runs the LLM rewrite. Failure is non-fatal: the original
// text is delivered and the failure is noted on the record.
func (s *Session) enhanceText(r *run, text string) string {
	if !s.machine.Transition(StateEnhancing) {
		return text
	}

	promptID := s.deps.Gate.PromptID()
	prompt, ok := r.snap.Enhancement.PromptByID(promptID)
	if !ok {
		s.logger.Warn("enhancement prompt not found", "prompt", promptID)
		return text
	}
	r.record.PromptID = prompt.ID

	res, err := s.deps.Enhancer.Enhance(context.Background(), text, prompt)
	if r.cancelled.Load() {
		return text
	}
	if err != nil {
		r.record.EnhancementNote = err.Error()
		s.logger.Warn("enhancement failed, delivering original text", "id", r.record.ID, "error", err)
		return text
	}

	r.record.EnhancedText = res.Text
	r.record.EnhanceDuration = res.Duration
	return res.Text
}

// paste delivers the finalized text at the cursor after a short settle
// delay for the host's focus handling.
func (s *Session) paste(r *run, text string) {
	s.sleep(time.Duration(r.snap.Output.PasteDelayMs) * time.Millisecond)

	if r.snap.Output.AppendTrailingSpace {
		text += " "
	}
	if err := s.deps.Paster.Paste(text); err != nil {
		s.deps.Notifier.Warn("Paste failed", "Result copied but not inserted")
		s.logger.Warn("paste failed", "error", err)
		return
	}
	if r.snap.Output.AutoSend {
		if err := s.deps.Paster.PressReturn(); err != nil {
			s.logger.Warn("auto-send failed", "error", err)
		}
	}
}

// finish tears down a session whose record was finalized (completed or
// failed).
func (s *Session) finish(r *run) {
	s.deps.Gate.Restore()

	if !r.snap.History.KeepAudio {
		_ = os.Remove(r.record.AudioPath)
	}

	s.deps.Media.End(context.Background())

	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()

	// Transcribing -> Idle and Enhancing -> Idle are direct; anything
	// else goes through Busy.
	if !s.machine.Transition(StateIdle) {
		s.machine.Transition(StateBusy)
		s.machine.Transition(StateIdle)
	}
	s.logger.Info("session finished", "id", r.record.ID, "status", r.record.Status)
}

// discard tears down a cancelled or empty session: the record and its
// audio file are deleted, nothing is pasted.
func (s *Session) discard(r *run) {
	s.deps.Gate.Restore()
	s.machine.Transition(StateBusy)

	if err := s.deps.Store.Delete(r.record.ID); err != nil {
		s.logger.Warn("failed to delete record", "error", err)
	}
	_ = os.Remove(r.record.AudioPath)

	s.deps.Media.End(context.Background())

	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()

	s.machine.Transition(StateIdle)
	s.logger.Info("session discarded", "id", r.record.ID)
}

// validateEngine rejects configurations that cannot transcribe, before any
// capture starts.
func validateEngine(c config.STTConfig) error {
	switch c.Engine {
	case config.EngineLocal:
		if c.LocalModelPath == "" {
			return errors.New("no local model selected")
		}
	case config.EngineLocalAlt:
		if c.AltServerURL == "" {
			return errors.New("no transcription server configured")
		}
	case config.EngineNative:
		// Nothing to validate; the OS engine carries its own setup.
	case config.EngineCloud:
		if c.APIKey() == "" {
			return errors.New("cloud transcription needs an API key")
		}
	default:
		return fmt.Errorf("unknown transcription engine %q", c.Engine)
	}
	return nil
}

// modelIdentity derives the record's model attribution from the engine
// settings.
func modelIdentity(c config.STTConfig) string {
	switch c.Engine {
	case config.EngineLocal:
		return filepath.Base(c.LocalModelPath)
	case config.EngineLocalAlt:
		return c.AltModel
	case config.EngineNative:
		return "system"
	case config.EngineCloud:
		return c.CloudModel
	default:
		return ""
	}
}

// triggerPrompts converts configured prompts into the pipeline's trigger
// list.
func triggerPrompts(prompts []config.PromptConfig) []textproc.TriggerPrompt {
	out := make([]textproc.TriggerPrompt, 0, len(prompts))
	for _, p := range prompts {
		if len(p.TriggerWords) == 0 {
			continue
		}
		out = append(out, textproc.TriggerPrompt{PromptID: p.ID, TriggerWords: p.TriggerWords})
	}
	return out
}
