package paste

import (
	"errors"
	"testing"
)

type fakeKeys struct {
	pastes  int
	returns int
	err     error
}

func (f *fakeKeys) PasteChord() error {
	if f.err != nil {
		return f.err
	}
	f.pastes++
	return nil
}

func (f *fakeKeys) Return() error {
	if f.err != nil {
		return f.err
	}
	f.returns++
	return nil
}

func testInjector(keys *fakeKeys, clip *string, clipErr error) *Injector {
	i := New(nil)
	i.keys = keys
	i.write = func(s string) error {
		if clipErr != nil {
			return clipErr
		}
		*clip = s
		return nil
	}
	return i
}

func TestInjector_Paste(t *testing.T) {
	keys := &fakeKeys{}
	var clip string
	i := testInjector(keys, &clip, nil)

	if err := i.Paste("hello world"); err != nil {
		t.Fatalf("Paste() error = %v", err)
	}
	if clip != "hello world" {
		t.Errorf("clipboard = %q", clip)
	}
	if keys.pastes != 1 {
		t.Errorf("paste keystrokes = %d, want 1", keys.pastes)
	}
}

func TestInjector_ClipboardFailureStopsKeystroke(t *testing.T) {
	keys := &fakeKeys{}
	var clip string
	i := testInjector(keys, &clip, errors.New("no clipboard"))

	if err := i.Paste("text"); err == nil {
		t.Fatal("clipboard failure must surface")
	}
	if keys.pastes != 0 {
		t.Error("keystroke must not fire when the clipboard write failed")
	}
}

func TestInjector_KeystrokeFailureKeepsClipboard(t *testing.T) {
	keys := &fakeKeys{err: errors.New("not permitted")}
	var clip string
	i := testInjector(keys, &clip, nil)

	if err := i.Paste("kept"); err == nil {
		t.Fatal("keystroke failure must surface")
	}
	if clip != "kept" {
		t.Errorf("clipboard = %q, text must stay on the clipboard", clip)
	}
}

func TestInjector_PressReturn(t *testing.T) {
	keys := &fakeKeys{}
	var clip string
	i := testInjector(keys, &clip, nil)

	if err := i.PressReturn(); err != nil {
		t.Fatalf("PressReturn() error = %v", err)
	}
	if keys.returns != 1 {
		t.Errorf("return keystrokes = %d, want 1", keys.returns)
	}
}
