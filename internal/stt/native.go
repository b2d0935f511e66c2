// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     stt
// Description: OS-native speech recognition via the hear CLI
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package stt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// NativeEngine shells out to the hear CLI, which wraps the macOS Speech
// framework. No model management; the OS owns recognition entirely.
type NativeEngine struct {
	binaryPath string
	locale     string
	logger     *logging.Logger
}

// NewNativeEngine creates the OS-native engine.
func NewNativeEngine(cfg config.STTConfig, logger *logging.Logger) (*NativeEngine, error) {
	if logger == nil {
		logger = logging.New("stt-native")
	}

	path, err := exec.LookPath("hear")
	if err != nil {
		return nil, fmt.Errorf("native speech recognition requires the hear CLI: %w", err)
	}

	return &NativeEngine{
		binaryPath: path,
		locale:     nativeLocale(cfg.Language),
		logger:     logger,
	}, nil
}

// nativeLocale maps a bare language code to the locale identifier the OS
// recognizer expects. auto means the system default.
func nativeLocale(language string) string {
	switch language {
	case "", "auto":
		return ""
	case "en":
		return "en-US"
	case "de":
		return "de-DE"
	case "fr":
		return "fr-FR"
	case "es":
		return "es-ES"
	case "ja":
		return "ja-JP"
	case "zh":
		return "zh-CN"
	case "ko":
		return "ko-KR"
	default:
		return language
	}
}

// TranscribeFile runs the recognizer over a WAV file.
func (n *NativeEngine) TranscribeFile(ctx context.Context, path string) (Result, error) {
	started := time.Now()

	args := []string{"-i", path}
	if n.locale != "" {
		args = append(args, "-l", n.locale)
	}

	cmd := exec.CommandContext(ctx, n.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("native recognition failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	n.logger.Debug("native transcription complete", "chars", len(text), "duration", time.Since(started))

	return Result{
		Text:     text,
		Language: n.locale,
		Duration: time.Since(started),
	}, nil
}

// Close releases resources.
func (n *NativeEngine) Close() error {
	return nil
}
