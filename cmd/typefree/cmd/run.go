// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     cmd
// Description: run command, starts the dictation daemon
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zhangyu1818/typefree/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the dictation daemon",
	Long: `Starts TypeFree: registers the configured hotkeys, shows the tray
icon and waits for dictation sessions. Blocks until quit from the tray
menu or a termination signal.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := app.New(configPath())
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		a.Quit()
	}()

	// The tray loop must own the main goroutine.
	return a.Run()
}
