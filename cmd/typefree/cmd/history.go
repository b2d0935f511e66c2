// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     cmd
// Description: history command, lists past transcriptions
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/internal/store"
)

var (
	historyLimit  int
	historyOffset int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past transcriptions",
	Long: `Lists persisted transcription records, newest first.

Examples:
  typefree history              # last 20 records
  typefree history --limit 50
  typefree history show <id>    # full text of one record`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one transcription in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum records to list")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "records to skip")
}

func openHistory() (*store.HistoryStore, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	return store.NewHistoryStore(cfg.History, nil)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openHistory()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.List(historyLimit, historyOffset)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No transcriptions yet.")
		return nil
	}

	fmt.Printf("%-36s %-19s %-9s %-20s %s\n", "ID", "CREATED", "STATUS", "MODEL", "TEXT")
	fmt.Println(strings.Repeat("-", 110))
	for _, r := range records {
		fmt.Printf("%-36s %-19s %-9s %-20s %s\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Status,
			truncate(r.ModelID, 20),
			truncate(r.FinalText(), 50),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	s, err := openHistory()
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ID:         %s\n", r.ID)
	fmt.Printf("Created:    %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Status:     %s\n", r.Status)
	fmt.Printf("Engine:     %s (%s)\n", r.Engine, r.ModelID)
	fmt.Printf("Transcribe: %s\n", r.TranscribeDuration)
	if r.EnhancedText != "" {
		fmt.Printf("Enhance:    %s (prompt %s)\n", r.EnhanceDuration, r.PromptID)
	}
	if r.ErrorDetail != "" {
		fmt.Printf("Error:      %s\n", r.ErrorDetail)
	}
	if r.EnhancementNote != "" {
		fmt.Printf("Note:       %s\n", r.EnhancementNote)
	}
	fmt.Println()
	fmt.Println(r.FinalText())
	return nil
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
