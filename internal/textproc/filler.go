// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     textproc
// Description: Hallucination artifact and filler word removal
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package textproc

import (
	"regexp"
	"strings"
)

// fillerWords is the fixed vocabulary of interjections stripped from
// transcripts. Matched on word boundaries, case-insensitive, with trailing
// punctuation absorbed.
var fillerWords = []string{
	"um", "umm", "uh", "uhh", "er", "erm", "err",
	"hmm", "hm", "mhm", "mm-hmm", "uh-huh",
}

var (
	// Speech models emit non-speech annotations in brackets, parentheses
	// or braces ("[laughs]", "(music)", "{applause}").
	bracketedRe    = regexp.MustCompile(`\[[^\[\]]*\]`)
	parenthesesRe  = regexp.MustCompile(`\([^()]*\)`)
	bracesRe       = regexp.MustCompile(`\{[^{}]*\}`)
	tagBlockRe     = regexp.MustCompile(`(?s)<([A-Za-z][A-Za-z0-9_]*)>.*?</[A-Za-z][A-Za-z0-9_]*>`)
	fillerRe       *regexp.Regexp
	multiSpaceRe   = regexp.MustCompile(`\s+`)
	spaceBeforePun = regexp.MustCompile(`\s+([.,!?;:])`)
)

func init() {
	fillerRe = regexp.MustCompile(`(?i)\b(` + strings.Join(fillerWords, "|") + `)\b[.,!?;:]*`)
}

// StripArtifacts removes model hallucination artifacts and filler words,
// then collapses whitespace. Word content other than the filler vocabulary
// is never altered.
func StripArtifacts(text string) string {
	out := tagBlockRe.ReplaceAllString(text, " ")
	out = bracketedRe.ReplaceAllString(out, " ")
	out = parenthesesRe.ReplaceAllString(out, " ")
	out = bracesRe.ReplaceAllString(out, " ")
	out = fillerRe.ReplaceAllString(out, " ")
	out = multiSpaceRe.ReplaceAllString(out, " ")
	out = spaceBeforePun.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

// FillerWords returns the configured filler vocabulary.
func FillerWords() []string {
	return append([]string(nil), fillerWords...)
}
