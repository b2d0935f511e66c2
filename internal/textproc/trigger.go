// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     textproc
// Description: Trigger word detection for prompt auto-selection
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package textproc

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TriggerPrompt is an enhancement prompt's trigger-word list, keyed by the
// prompt identity it arms.
type TriggerPrompt struct {
	PromptID     string
	TriggerWords []string
}

// TriggerMatch describes a detected trigger word and the cleaned remainder.
type TriggerMatch struct {
	PromptID  string
	Word      string
	Remainder string
}

type triggerCandidate struct {
	word     string
	promptID string
}

// DetectTrigger scans the leading and trailing positions of text for any
// configured trigger word, longest word first so the most specific phrase
// wins. A word found at both ends at once beats a single-end match. The
// returned remainder has the trigger stripped and its first letter
// re-capitalized.
func DetectTrigger(text string, prompts []TriggerPrompt) (TriggerMatch, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len(prompts) == 0 {
		return TriggerMatch{}, false
	}

	candidates := make([]triggerCandidate, 0)
	for _, p := range prompts {
		for _, w := range p.TriggerWords {
			w = strings.TrimSpace(w)
			if w != "" {
				candidates = append(candidates, triggerCandidate{word: w, promptID: p.PromptID})
			}
		}
	}
	if len(candidates) == 0 {
		return TriggerMatch{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].word) > len(candidates[j].word)
	})

	var leading, trailing *triggerCandidate
	var leadingRest, trailingRest string

	for i := range candidates {
		c := &candidates[i]
		if leading == nil {
			if rest, ok := stripLeading(trimmed, c.word); ok {
				leading = c
				leadingRest = rest
			}
		}
		if trailing == nil {
			if rest, ok := stripTrailing(trimmed, c.word); ok {
				trailing = c
				trailingRest = rest
			}
		}
	}

	// Same word on both ends at once takes priority.
	if leading != nil && trailing != nil && leading.word == trailing.word {
		rest, _ := stripTrailing(leadingRest, leading.word)
		if rest == "" {
			rest = leadingRest
		}
		return TriggerMatch{
			PromptID:  leading.promptID,
			Word:      leading.word,
			Remainder: recapitalize(rest),
		}, true
	}
	if leading != nil {
		return TriggerMatch{
			PromptID:  leading.promptID,
			Word:      leading.word,
			Remainder: recapitalize(leadingRest),
		}, true
	}
	if trailing != nil {
		return TriggerMatch{
			PromptID:  trailing.promptID,
			Word:      trailing.word,
			Remainder: recapitalize(trailingRest),
		}, true
	}
	return TriggerMatch{}, false
}

// stripLeading removes word from the front of text when it sits on a word
// boundary, returning the cleaned remainder.
func stripLeading(text, word string) (string, bool) {
	if len(text) < len(word) {
		return "", false
	}
	head := text[:len(word)]
	if !strings.EqualFold(head, word) {
		return "", false
	}
	rest := text[len(word):]
	if rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return "", false
		}
	}
	return strings.TrimLeft(rest, " \t,.:;!?-"), true
}

// stripTrailing removes word from the end of text, ignoring trailing
// punctuation, when it sits on a word boundary.
func stripTrailing(text, word string) (string, bool) {
	stripped := strings.TrimRight(text, " \t.,:;!?-")
	if len(stripped) < len(word) {
		return "", false
	}
	tail := stripped[len(stripped)-len(word):]
	if !strings.EqualFold(tail, word) {
		return "", false
	}
	rest := stripped[:len(stripped)-len(word)]
	if rest != "" {
		r, _ := utf8.DecodeLastRuneInString(rest)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return "", false
		}
	}
	return strings.TrimRight(rest, " \t,.:;!?-"), true
}

// recapitalize upper-cases the first letter of the remainder.
func recapitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(r) || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
