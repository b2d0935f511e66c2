// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     main
// Description: Entry point for the typefree binary
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package main

import (
	"os"

	"github.com/zhangyu1818/typefree/cmd/typefree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
