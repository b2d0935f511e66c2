// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     config
// Description: Configuration loading (TOML/YAML) and per-session snapshots
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Hotkey slot kinds.
const (
	SlotNone     = "none"
	SlotModifier = "modifier"
	SlotChord    = "chord"
)

// STT engine families.
const (
	EngineLocal    = "local"
	EngineLocalAlt = "localalt"
	EngineNative   = "native"
	EngineCloud    = "cloud"
)

// SlotConfig binds one hotkey slot.
type SlotConfig struct {
	Kind     string `toml:"kind" yaml:"kind"`         // none, modifier, chord
	Modifier string `toml:"modifier" yaml:"modifier"` // fn, option, control, command, shift
	Chord    string `toml:"chord" yaml:"chord"`       // e.g. "ctrl+shift+d"
}

// HotkeyConfig holds hotkey behavior settings.
type HotkeyConfig struct {
	SlotA           SlotConfig `toml:"slot_a" yaml:"slot_a"`
	SlotB           SlotConfig `toml:"slot_b" yaml:"slot_b"`
	HoldThresholdMs int        `toml:"hold_threshold_ms" yaml:"hold_threshold_ms"`
	FnDebounceMs    int        `toml:"fn_debounce_ms" yaml:"fn_debounce_ms"`
	ChordCooldownMs int        `toml:"chord_cooldown_ms" yaml:"chord_cooldown_ms"`
}

// AudioConfig holds capture settings.
type AudioConfig struct {
	InputDevice     string   `toml:"input_device" yaml:"input_device"`
	DevicePriority  []string `toml:"device_priority" yaml:"device_priority"`
	SampleRate      int      `toml:"sample_rate" yaml:"sample_rate"`
	BufferSize      int      `toml:"buffer_size" yaml:"buffer_size"`
	MuteSystemAudio bool     `toml:"mute_system_audio" yaml:"mute_system_audio"`
	PauseMedia      bool     `toml:"pause_media" yaml:"pause_media"`
	RecordingsDir   string   `toml:"recordings_dir" yaml:"recordings_dir"`
}

// VADConfig holds voice activity detection settings.
type VADConfig struct {
	Enabled             bool `toml:"enabled" yaml:"enabled"`
	Mode                int  `toml:"mode" yaml:"mode"`
	SilenceDurationMs   int  `toml:"silence_duration_ms" yaml:"silence_duration_ms"`
	MinSpeechDurationMs int  `toml:"min_speech_duration_ms" yaml:"min_speech_duration_ms"`
}

// STTConfig selects and configures the transcription engine.
type STTConfig struct {
	Engine         string `toml:"engine" yaml:"engine"`
	Language       string `toml:"language" yaml:"language"`
	LocalModelPath string `toml:"local_model_path" yaml:"local_model_path"`
	LocalBinary    string `toml:"local_binary" yaml:"local_binary"`
	AltServerURL   string `toml:"alt_server_url" yaml:"alt_server_url"`
	AltModel       string `toml:"alt_model" yaml:"alt_model"`
	CloudModel     string `toml:"cloud_model" yaml:"cloud_model"`
	CloudBaseURL   string `toml:"cloud_base_url" yaml:"cloud_base_url"`
	APIKeyEnv      string `toml:"api_key_env" yaml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
	Streaming      bool   `toml:"streaming" yaml:"streaming"`
}

// PromptConfig is one enhancement prompt with optional trigger words.
type PromptConfig struct {
	ID           string   `toml:"id" yaml:"id"`
	Name         string   `toml:"name" yaml:"name"`
	Instruction  string   `toml:"instruction" yaml:"instruction"`
	TriggerWords []string `toml:"trigger_words" yaml:"trigger_words"`
}

// EnhancementConfig configures the optional LLM rewrite phase.
type EnhancementConfig struct {
	Enabled        bool           `toml:"enabled" yaml:"enabled"`
	PromptID       string         `toml:"prompt_id" yaml:"prompt_id"`
	Prompts        []PromptConfig `toml:"prompts" yaml:"prompts"`
	Model          string         `toml:"model" yaml:"model"`
	BaseURL        string         `toml:"base_url" yaml:"base_url"`
	APIKeyEnv      string         `toml:"api_key_env" yaml:"api_key_env"`
	TimeoutSeconds int            `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig controls how finalized text is delivered.
type OutputConfig struct {
	TextFormatting      bool `toml:"text_formatting" yaml:"text_formatting"`
	AppendTrailingSpace bool `toml:"append_trailing_space" yaml:"append_trailing_space"`
	AutoSend            bool `toml:"auto_send" yaml:"auto_send"`
	PasteDelayMs        int  `toml:"paste_delay_ms" yaml:"paste_delay_ms"`
}

// HistoryConfig controls record persistence.
type HistoryConfig struct {
	DBPath        string `toml:"db_path" yaml:"db_path"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"`
	KeepAudio     bool   `toml:"keep_audio" yaml:"keep_audio"`
}

// Config is the full application configuration.
type Config struct {
	Language    string            `toml:"language" yaml:"language"`
	LogLevel    string            `toml:"log_level" yaml:"log_level"`
	LogFormat   string            `toml:"log_format" yaml:"log_format"`
	Hotkeys     HotkeyConfig      `toml:"hotkeys" yaml:"hotkeys"`
	Audio       AudioConfig       `toml:"audio" yaml:"audio"`
	VAD         VADConfig         `toml:"vad" yaml:"vad"`
	STT         STTConfig         `toml:"stt" yaml:"stt"`
	Enhancement EnhancementConfig `toml:"enhancement" yaml:"enhancement"`
	Output      OutputConfig      `toml:"output" yaml:"output"`
	Vocabulary  map[string]string `toml:"vocabulary" yaml:"vocabulary"`
	History     HistoryConfig     `toml:"history" yaml:"history"`
}

// Default returns the default configuration.
func Default() Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "typefree")

	return Config{
		Language:  "en",
		LogLevel:  "info",
		LogFormat: "text",

		Hotkeys: HotkeyConfig{
			SlotA:           SlotConfig{Kind: SlotModifier, Modifier: "fn"},
			SlotB:           SlotConfig{Kind: SlotNone},
			HoldThresholdMs: 1700,
			FnDebounceMs:    75,
			ChordCooldownMs: 500,
		},

		Audio: AudioConfig{
			InputDevice:     "default",
			SampleRate:      16000,
			BufferSize:      512,
			MuteSystemAudio: true,
			PauseMedia:      true,
			RecordingsDir:   filepath.Join(dataDir, "recordings"),
		},

		VAD: VADConfig{
			Enabled:             false,
			Mode:                2,
			SilenceDurationMs:   3000,
			MinSpeechDurationMs: 500,
		},

		STT: STTConfig{
			Engine:         EngineLocal,
			Language:       "auto",
			LocalBinary:    "whisper-cli",
			LocalModelPath: filepath.Join(dataDir, "models", "ggml-base.bin"),
			AltServerURL:   "http://localhost:8100",
			AltModel:       "parakeet-tdt-0.6b",
			CloudModel:     "whisper-1",
			APIKeyEnv:      "TYPEFREE_API_KEY",
			TimeoutSeconds: 60,
		},

		Enhancement: EnhancementConfig{
			Enabled:        false,
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "TYPEFREE_API_KEY",
			TimeoutSeconds: 30,
		},

		Output: OutputConfig{
			TextFormatting:      true,
			AppendTrailingSpace: false,
			AutoSend:            false,
			PasteDelayMs:        50,
		},

		History: HistoryConfig{
			DBPath:        filepath.Join(dataDir, "history.db"),
			RetentionDays: 30,
			KeepAudio:     true,
		},
	}
}

// Load reads a configuration file, applying defaults for missing fields.
// The format is detected from the file extension (.toml, .yaml, .yml).
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	// Credentials may live in a .env next to the config file.
	if path != "" {
		_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	}

	cfg.normalize()
	return cfg, nil
}

// normalize clamps obviously invalid values back to defaults.
func (c *Config) normalize() {
	def := Default()

	if c.Hotkeys.HoldThresholdMs <= 0 {
		c.Hotkeys.HoldThresholdMs = def.Hotkeys.HoldThresholdMs
	}
	if c.Hotkeys.FnDebounceMs <= 0 {
		c.Hotkeys.FnDebounceMs = def.Hotkeys.FnDebounceMs
	}
	if c.Hotkeys.ChordCooldownMs <= 0 {
		c.Hotkeys.ChordCooldownMs = def.Hotkeys.ChordCooldownMs
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = def.Audio.SampleRate
	}
	if c.Audio.BufferSize <= 0 {
		c.Audio.BufferSize = def.Audio.BufferSize
	}
	if c.STT.TimeoutSeconds <= 0 {
		c.STT.TimeoutSeconds = def.STT.TimeoutSeconds
	}
	if c.Enhancement.TimeoutSeconds <= 0 {
		c.Enhancement.TimeoutSeconds = def.Enhancement.TimeoutSeconds
	}
	if c.Output.PasteDelayMs < 0 {
		c.Output.PasteDelayMs = def.Output.PasteDelayMs
	}
}

// Snapshot returns a deep copy of the configuration. A session takes a
// snapshot at start so its behavior is stable even if the file is reloaded
// mid-flight.
func (c Config) Snapshot() Config {
	cp := c

	if c.Vocabulary != nil {
		cp.Vocabulary = make(map[string]string, len(c.Vocabulary))
		for k, v := range c.Vocabulary {
			cp.Vocabulary[k] = v
		}
	}

	if c.Audio.DevicePriority != nil {
		cp.Audio.DevicePriority = append([]string(nil), c.Audio.DevicePriority...)
	}

	if c.Enhancement.Prompts != nil {
		cp.Enhancement.Prompts = make([]PromptConfig, len(c.Enhancement.Prompts))
		for i, p := range c.Enhancement.Prompts {
			pc := p
			pc.TriggerWords = append([]string(nil), p.TriggerWords...)
			cp.Enhancement.Prompts[i] = pc
		}
	}

	return cp
}

// PromptByID looks up a configured enhancement prompt.
func (c *EnhancementConfig) PromptByID(id string) (PromptConfig, bool) {
	for _, p := range c.Prompts {
		if p.ID == id {
			return p, true
		}
	}
	return PromptConfig{}, false
}

// APIKey resolves the configured credential from the environment.
func (c *EnhancementConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// APIKey resolves the configured credential from the environment.
func (c *STTConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// Configured reports whether enhancement has a usable provider set up.
func (c *EnhancementConfig) Configured() bool {
	return c.Model != "" && (c.APIKey() != "" || c.BaseURL != "")
}
