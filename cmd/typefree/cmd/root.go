// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     cmd
// Description: CLI command definitions
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "typefree",
	Short: "TypeFree - push-to-talk dictation",
	Long: `TypeFree turns speech into text at the cursor.

Hold or tap the configured hotkey to record, release or tap again to
transcribe; the result is pasted into the focused app. Transcription runs
locally (whisper.cpp), against a local server, via the OS speech service
or through an OpenAI-compatible cloud API.

Commands:
  run       start the dictation daemon (tray + hotkeys)
  history   list past transcriptions
  models    show the configured transcription engines
  version   print version information`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/typefree/config.toml)")
}

// configPath resolves the config file path, preferring the flag.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "typefree", "config.toml")
}
