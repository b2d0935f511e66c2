package session

import "testing"

func TestMachine_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
		want bool
	}{
		{"full pipeline", []State{StateRecording, StateTranscribing, StateEnhancing, StateIdle}, true},
		{"skip enhancement", []State{StateRecording, StateTranscribing, StateIdle}, true},
		{"cancel while recording", []State{StateRecording, StateBusy, StateIdle}, true},
		{"cancel while transcribing", []State{StateRecording, StateTranscribing, StateBusy, StateIdle}, true},
		{"start from recording", []State{StateRecording, StateRecording}, false},
		{"enhance from idle", []State{StateEnhancing}, false},
		{"record from busy", []State{StateRecording, StateBusy, StateRecording}, false},
		{"transcribe from idle", []State{StateTranscribing}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			ok := true
			for _, next := range tt.path {
				if !m.Transition(next) {
					ok = false
					break
				}
			}
			if ok != tt.want {
				t.Errorf("path %v: ok = %v, want %v", tt.path, ok, tt.want)
			}
		})
	}
}

func TestMachine_InvalidTransitionLeavesStateUnchanged(t *testing.T) {
	m := NewMachine()
	if m.Transition(StateEnhancing) {
		t.Fatal("idle -> enhancing must be rejected")
	}
	if got := m.Current(); got != StateIdle {
		t.Errorf("state = %v after rejected transition, want idle", got)
	}
}

func TestMachine_ListenersSeeEveryTransition(t *testing.T) {
	m := NewMachine()

	var got [][2]State
	m.AddListener(func(oldState, newState State) {
		got = append(got, [2]State{oldState, newState})
	})

	m.Transition(StateRecording)
	m.Transition(StateTranscribing)
	m.Transition(StateRecording) // rejected, listener must not fire
	m.Transition(StateEnhancing)
	m.Transition(StateIdle)

	want := [][2]State{
		{StateIdle, StateRecording},
		{StateRecording, StateTranscribing},
		{StateTranscribing, StateEnhancing},
		{StateEnhancing, StateIdle},
	}
	if len(got) != len(want) {
		t.Fatalf("listener fired %d times, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMachine_CanProcessHotkey(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateIdle, true},
		{StateRecording, true},
		{StateTranscribing, false},
		{StateEnhancing, false},
		{StateBusy, false},
	}

	for _, tt := range tests {
		m := &Machine{currentState: tt.state}
		if got := m.CanProcessHotkey(); got != tt.want {
			t.Errorf("CanProcessHotkey() in %v = %v, want %v", tt.state, got, tt.want)
		}
	}
}
