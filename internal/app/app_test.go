package app

import (
	"testing"
	"time"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/internal/hotkey"
)

func TestHotkeyConfig(t *testing.T) {
	hc := config.HotkeyConfig{
		SlotA:           config.SlotConfig{Kind: config.SlotModifier, Modifier: " Fn "},
		SlotB:           config.SlotConfig{Kind: config.SlotChord, Chord: "ctrl+shift+d"},
		HoldThresholdMs: 1700,
		FnDebounceMs:    75,
		ChordCooldownMs: 500,
	}

	got := hotkeyConfig(hc)

	if got.Slots[0].Kind != hotkey.SlotModifier || got.Slots[0].Modifier != hotkey.ModifierFn {
		t.Errorf("slot A = %+v", got.Slots[0])
	}
	if got.Slots[1].Kind != hotkey.SlotChord || got.Slots[1].Chord != "ctrl+shift+d" {
		t.Errorf("slot B = %+v", got.Slots[1])
	}
	if got.HoldThreshold != 1700*time.Millisecond || got.FnDebounce != 75*time.Millisecond {
		t.Errorf("timings = %v/%v", got.HoldThreshold, got.FnDebounce)
	}
}

func TestSlotBinding_Unbound(t *testing.T) {
	for _, kind := range []string{config.SlotNone, "", "bogus"} {
		if got := slotBinding(config.SlotConfig{Kind: kind}); got.Kind != hotkey.SlotUnbound {
			t.Errorf("slotBinding(%q).Kind = %v, want unbound", kind, got.Kind)
		}
	}
}

func TestPCMBytes(t *testing.T) {
	got := pcmBytes([]float32{0, 1.0, -1.0, 2.0})

	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	// Zero sample.
	if got[0] != 0 || got[1] != 0 {
		t.Errorf("sample 0 = %x %x", got[0], got[1])
	}
	// Full scale positive: 32767 = 0x7FFF.
	if got[2] != 0xFF || got[3] != 0x7F {
		t.Errorf("sample 1 = %x %x, want FF 7F", got[2], got[3])
	}
	// Full scale negative: -32767 = 0x8001.
	if got[4] != 0x01 || got[5] != 0x80 {
		t.Errorf("sample 2 = %x %x, want 01 80", got[4], got[5])
	}
	// Out of range clamps to full scale.
	if got[6] != 0xFF || got[7] != 0x7F {
		t.Errorf("sample 3 = %x %x, want FF 7F", got[6], got[7])
	}
}
