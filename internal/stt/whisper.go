// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     stt
// Description: Offline transcription via the whisper.cpp CLI
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package stt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// WhisperCLI runs whisper.cpp as a subprocess per transcription. Warm only
// verifies the binary and model; the CLI loads the model on each run.
type WhisperCLI struct {
	binaryPath string
	modelPath  string
	language   string
	logger     *logging.Logger
}

// NewWhisperCLI creates the offline engine from the STT settings.
func NewWhisperCLI(cfg config.STTConfig, logger *logging.Logger) (*WhisperCLI, error) {
	if logger == nil {
		logger = logging.New("stt-whisper")
	}

	binaryPath := findWhisperBinary(cfg.LocalBinary)
	if binaryPath == "" {
		return nil, fmt.Errorf("whisper binary not found (looked for %q)", cfg.LocalBinary)
	}
	if cfg.LocalModelPath == "" {
		return nil, fmt.Errorf("model path is required")
	}

	return &WhisperCLI{
		binaryPath: binaryPath,
		modelPath:  cfg.LocalModelPath,
		language:   cfg.Language,
		logger:     logger,
	}, nil
}

// findWhisperBinary locates the whisper.cpp CLI: the configured name first,
// then common install names on PATH, then well-known locations.
func findWhisperBinary(configured string) string {
	names := []string{"whisper-cli", "whisper-cpp", "whisper"}
	if configured != "" {
		names = append([]string{configured}, names...)
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	locations := []string{
		"/opt/homebrew/bin/whisper-cli",
		"/opt/homebrew/bin/whisper",
		"/usr/local/bin/whisper-cli",
		"/usr/local/bin/whisper",
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Warm verifies the model file is present and readable.
func (w *WhisperCLI) Warm(ctx context.Context) error {
	if _, err := os.Stat(w.modelPath); err != nil {
		return fmt.Errorf("model file not available: %w", err)
	}
	return nil
}

// TranscribeFile runs the CLI over a WAV file and parses its text output.
func (w *WhisperCLI) TranscribeFile(ctx context.Context, path string) (Result, error) {
	started := time.Now()

	args := []string{"--model", w.modelPath, "--no-prints"}
	if w.language != "" && w.language != "auto" {
		args = append(args, "--language", w.language)
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, w.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Older builds only understand the short flags.
		args2 := []string{"-m", w.modelPath, "-np"}
		if w.language != "" && w.language != "auto" {
			args2 = append(args2, "-l", w.language)
		}
		args2 = append(args2, path)

		cmd2 := exec.CommandContext(ctx, w.binaryPath, args2...)
		stdout.Reset()
		stderr.Reset()
		cmd2.Stdout = &stdout
		cmd2.Stderr = &stderr

		if err2 := cmd2.Run(); err2 != nil {
			return Result{}, fmt.Errorf("whisper failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
		}
	}

	text := stripTimestamps(stdout.String())
	w.logger.Debug("whisper transcription complete", "chars", len(text), "duration", time.Since(started))

	return Result{
		Text:     text,
		Language: w.language,
		Duration: time.Since(started),
	}, nil
}

// stripTimestamps removes whisper's [00:00:00.000 --> 00:00:05.000] line
// prefixes and joins the remaining lines.
func stripTimestamps(raw string) string {
	var cleanLines []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.Contains(line, "-->") {
			if idx := strings.Index(line, "]"); idx != -1 {
				line = strings.TrimSpace(line[idx+1:])
			}
		}
		if line != "" {
			cleanLines = append(cleanLines, line)
		}
	}
	return strings.Join(cleanLines, " ")
}

// Close releases resources.
func (w *WhisperCLI) Close() error {
	return nil
}
