package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/internal/stt"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

type fakeEngine struct {
	key    string
	calls  int
	warmed int
	closed bool
	err    error
}

func (f *fakeEngine) TranscribeFile(ctx context.Context, path string) (stt.Result, error) {
	f.calls++
	if f.err != nil {
		return stt.Result{}, f.err
	}
	return stt.Result{Text: "text from " + f.key}, nil
}

func (f *fakeEngine) Warm(ctx context.Context) error {
	f.warmed++
	return nil
}

func (f *fakeEngine) Close() error {
	f.closed = true
	return nil
}

type engineTracker struct {
	built []*fakeEngine
}

func (e *engineTracker) factory(cfg config.STTConfig, logger *logging.Logger) (stt.Transcriber, error) {
	eng := &fakeEngine{key: engineKey(cfg)}
	e.built = append(e.built, eng)
	return eng, nil
}

func localConfig(model string) config.STTConfig {
	cfg := config.Default().STT
	cfg.Engine = config.EngineLocal
	cfg.LocalModelPath = "/models/" + model
	return cfg
}

func TestDispatcher_ReusesWarmEngine(t *testing.T) {
	tracker := &engineTracker{}
	d := NewWithFactory(tracker.factory, nil)

	cfg := localConfig("ggml-base.bin")
	for i := 0; i < 3; i++ {
		if _, err := d.Transcribe(context.Background(), "a.wav", cfg); err != nil {
			t.Fatalf("Transcribe() error = %v", err)
		}
	}

	if len(tracker.built) != 1 {
		t.Fatalf("built %d engines, want 1 (same model must be reused)", len(tracker.built))
	}
	if tracker.built[0].calls != 3 {
		t.Errorf("calls = %d, want 3", tracker.built[0].calls)
	}
}

func TestDispatcher_ModelChangeReleasesPrevious(t *testing.T) {
	tracker := &engineTracker{}
	d := NewWithFactory(tracker.factory, nil)

	if _, err := d.Transcribe(context.Background(), "a.wav", localConfig("base.bin")); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if _, err := d.Transcribe(context.Background(), "b.wav", localConfig("large.bin")); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if len(tracker.built) != 2 {
		t.Fatalf("built %d engines, want 2", len(tracker.built))
	}
	if !tracker.built[0].closed {
		t.Error("previous engine must be released before loading a different model")
	}
	if tracker.built[1].closed {
		t.Error("current engine must stay warm")
	}
}

func TestDispatcher_EngineFamilySwitch(t *testing.T) {
	tracker := &engineTracker{}
	d := NewWithFactory(tracker.factory, nil)

	cloud := config.Default().STT
	cloud.Engine = config.EngineCloud

	if _, err := d.Transcribe(context.Background(), "a.wav", localConfig("base.bin")); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Transcribe(context.Background(), "a.wav", cloud); err != nil {
		t.Fatal(err)
	}

	if len(tracker.built) != 2 || !tracker.built[0].closed {
		t.Errorf("switching families must release the previous engine, built=%d", len(tracker.built))
	}
}

// Errors propagate unchanged with no retry.
func TestDispatcher_SingleAttempt(t *testing.T) {
	tracker := &engineTracker{}
	d := NewWithFactory(tracker.factory, nil)

	cfg := localConfig("base.bin")
	if _, err := d.Transcribe(context.Background(), "a.wav", cfg); err != nil {
		t.Fatal(err)
	}

	wantErr := errors.New("decode failure")
	tracker.built[0].err = wantErr

	_, err := d.Transcribe(context.Background(), "a.wav", cfg)
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want the engine error unchanged", err)
	}
	if tracker.built[0].calls != 2 {
		t.Errorf("calls = %d, want 2 (exactly one attempt per request)", tracker.built[0].calls)
	}
}

func TestDispatcher_PreloadWarms(t *testing.T) {
	tracker := &engineTracker{}
	d := NewWithFactory(tracker.factory, nil)

	cfg := localConfig("base.bin")
	if err := d.Preload(context.Background(), cfg); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}
	if len(tracker.built) != 1 || tracker.built[0].warmed != 1 {
		t.Fatalf("preload must build and warm one engine, built=%d", len(tracker.built))
	}

	// The following transcription reuses the preloaded engine.
	if _, err := d.Transcribe(context.Background(), "a.wav", cfg); err != nil {
		t.Fatal(err)
	}
	if len(tracker.built) != 1 {
		t.Errorf("built %d engines, want 1", len(tracker.built))
	}
}

func TestDispatcher_Release(t *testing.T) {
	tracker := &engineTracker{}
	d := NewWithFactory(tracker.factory, nil)

	if _, err := d.Transcribe(context.Background(), "a.wav", localConfig("base.bin")); err != nil {
		t.Fatal(err)
	}
	d.Release()

	if !tracker.built[0].closed {
		t.Error("Release() must close the warm engine")
	}

	if _, err := d.Transcribe(context.Background(), "a.wav", localConfig("base.bin")); err != nil {
		t.Fatal(err)
	}
	if len(tracker.built) != 2 {
		t.Errorf("built %d engines, want 2 after release", len(tracker.built))
	}
}

func TestDispatcher_UnknownEngine(t *testing.T) {
	d := New(nil)
	cfg := config.Default().STT
	cfg.Engine = "telepathy"

	if _, err := d.Transcribe(context.Background(), "a.wav", cfg); err == nil {
		t.Fatal("unknown engine must fail")
	}
}
