package audio

import "testing"

func TestPickDevice(t *testing.T) {
	devices := []Device{
		{Name: "Built-in Microphone", IsDefault: true},
		{Name: "AirPods Pro"},
		{Name: "USB Interface"},
	}

	tests := []struct {
		name      string
		preferred string
		priority  []string
		want      string
	}{
		{"preferred present", "USB Interface", nil, "USB Interface"},
		{"preferred missing falls to priority", "Yeti", []string{"AirPods Pro", "USB Interface"}, "AirPods Pro"},
		{"priority order respected", "", []string{"Yeti", "USB Interface", "AirPods Pro"}, "USB Interface"},
		{"nothing matches falls to default", "Yeti", []string{"Shure MV7"}, "Built-in Microphone"},
		{"default keyword skips preferred lookup", "default", nil, "Built-in Microphone"},
		{"empty preference", "", nil, "Built-in Microphone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickDevice(devices, tt.preferred, tt.priority); got != tt.want {
				t.Errorf("PickDevice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPickDevice_NoDevices(t *testing.T) {
	if got := PickDevice(nil, "Yeti", []string{"AirPods Pro"}); got != "" {
		t.Errorf("PickDevice() = %q, want empty for no devices", got)
	}
}
