// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     textproc
// Description: Ordered post-processing pipeline for transcripts
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package textproc

import (
	"strings"

	"github.com/zhangyu1818/typefree/pkg/logging"
)

// Options configure a pipeline run. A session builds Options once from its
// settings snapshot.
type Options struct {
	// FormatText enables sentence chunking into paragraphs.
	FormatText bool

	// Vocabulary is the user phrase replacement map.
	Vocabulary map[string]string

	// Prompts supply trigger-word lists for prompt auto-selection.
	Prompts []TriggerPrompt
}

// Result is the pipeline output.
type Result struct {
	// Text is the processed transcript.
	Text string

	// Trigger is set when a trigger word armed an enhancement prompt.
	Trigger *TriggerMatch
}

// Pipeline applies the fixed transform sequence to transcripts: artifact
// and filler stripping, locale-aware chunking, vocabulary replacement, then
// trigger detection.
type Pipeline struct {
	opts   Options
	logger *logging.Logger
}

// NewPipeline creates a pipeline for one session's options.
func NewPipeline(opts Options, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.New("textproc")
	}
	return &Pipeline{opts: opts, logger: logger}
}

// Process runs the transform sequence over a raw transcript.
func (p *Pipeline) Process(raw string) Result {
	text := StripArtifacts(raw)
	if text == "" {
		return Result{Text: ""}
	}

	if p.opts.FormatText {
		text = ChunkText(text)
	}

	text = ApplyVocabulary(text, p.opts.Vocabulary)

	if match, ok := DetectTrigger(text, p.opts.Prompts); ok {
		p.logger.Debug("trigger word detected", "word", match.Word, "prompt", match.PromptID)
		text = match.Remainder
		return Result{Text: text, Trigger: &match}
	}

	if strings.TrimSpace(text) == "" {
		return Result{Text: ""}
	}
	return Result{Text: text}
}
