// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     cmd
// Description: models command, shows and warms transcription engines
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/internal/dispatch"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the configured transcription engines",
	Long: `Shows the four transcription engine families and their configured
models. The active engine is marked.

Examples:
  typefree models           # list engines
  typefree models preload   # warm the active engine`,
	RunE: runModels,
}

var modelsPreloadCmd = &cobra.Command{
	Use:   "preload",
	Short: "Warm the active engine",
	Long:  `Loads the active engine's model so the first dictation session starts without the load delay. Also verifies the engine is reachable.`,
	RunE:  runModelsPreload,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsPreloadCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	type row struct {
		engine string
		model  string
		detail string
	}

	localDetail := cfg.STT.LocalModelPath
	if _, err := os.Stat(cfg.STT.LocalModelPath); err != nil {
		localDetail += " (missing)"
	}

	rows := []row{
		{config.EngineLocal, modelBase(cfg.STT.LocalModelPath), localDetail},
		{config.EngineLocalAlt, cfg.STT.AltModel, cfg.STT.AltServerURL},
		{config.EngineNative, "system", "OS speech service"},
		{config.EngineCloud, cfg.STT.CloudModel, cloudDetail(cfg.STT)},
	}

	fmt.Printf("%-10s %-24s %s\n", "ENGINE", "MODEL", "DETAIL")
	fmt.Println(strings.Repeat("-", 70))
	for _, r := range rows {
		marker := "  "
		if r.engine == cfg.STT.Engine {
			marker = "* "
		}
		fmt.Printf("%s%-8s %-24s %s\n", marker, r.engine, r.model, r.detail)
	}
	return nil
}

func runModelsPreload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	d := dispatch.New(nil)
	defer d.Release()

	if err := d.Preload(context.Background(), cfg.STT); err != nil {
		return fmt.Errorf("preload failed: %w", err)
	}
	fmt.Printf("Engine %s is ready.\n", cfg.STT.Engine)
	return nil
}

func modelBase(path string) string {
	if path == "" {
		return "-"
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

func cloudDetail(c config.STTConfig) string {
	detail := c.CloudBaseURL
	if detail == "" {
		detail = "api.openai.com"
	}
	if c.APIKey() == "" {
		detail += " (no API key)"
	}
	return detail
}
