// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     textproc
// Description: Locale-aware sentence chunking into paragraphs
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package textproc

import (
	"strings"
	"sync"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

const (
	// paragraphTargetWords is the soft word budget per paragraph. The
	// sentence that crosses the budget stays in the paragraph.
	paragraphTargetWords = 50

	// maxSignificantSentences caps significant sentences per paragraph so
	// many short sentences cannot pile into one block.
	maxSignificantSentences = 4

	// significantWordCount is the minimum word count for a sentence to
	// count against the significant-sentence cap.
	significantWordCount = 4
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

// cjkSentenceEnders terminate sentences in scripts without spaces.
var cjkSentenceEnders = map[rune]bool{
	'。': true, '！': true, '？': true, '．': true,
	'!': true, '?': true, '.': true,
}

// ChunkText splits text into sentences using a language-appropriate
// tokenizer and regroups them into paragraphs joined by blank lines.
// Sentence order and content are preserved exactly.
func ChunkText(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed
	}

	spaced := !isNonSpacedScript(trimmed)
	sents := splitSentences(trimmed, spaced)
	if len(sents) == 0 {
		return trimmed
	}

	var paragraphs []string
	var current []string
	words := 0
	significant := 0

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
			words = 0
			significant = 0
		}
	}

	for _, s := range sents {
		wc := wordCount(s, spaced)
		current = append(current, s)
		words += wc
		if wc >= significantWordCount {
			significant++
		}
		if words >= paragraphTargetWords || significant >= maxSignificantSentences {
			flush()
		}
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

// splitSentences tokenizes text into sentences. Space-delimited scripts use
// the trained punkt tokenizer; non-spaced scripts fall back to splitting on
// sentence-ending punctuation.
func splitSentences(text string, spaced bool) []string {
	if !spaced {
		return splitOnEnders(text)
	}

	// Language detection decides whether the trained tokenizer applies;
	// scripts it has no training data for use the punctuation fallback.
	info := whatlanggo.Detect(text)
	switch info.Lang {
	case whatlanggo.Cmn, whatlanggo.Jpn, whatlanggo.Kor, whatlanggo.Tha:
		return splitOnEnders(text)
	}

	tokenizerOnce.Do(func() {
		tokenizer, _ = english.NewSentenceTokenizer(nil)
	})
	if tokenizer == nil {
		return splitOnEnders(text)
	}

	var out []string
	for _, s := range tokenizer.Tokenize(text) {
		t := strings.TrimSpace(s.Text)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitOnEnders splits on sentence-ending punctuation, keeping the
// terminator attached to its sentence.
func splitOnEnders(text string) []string {
	var out []string
	var b strings.Builder

	for _, r := range text {
		b.WriteRune(r)
		if cjkSentenceEnders[r] {
			s := strings.TrimSpace(b.String())
			if s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// wordCount approximates the word count of a sentence. Non-spaced scripts
// count pairs of letters, which tracks the usual two-character word length.
func wordCount(s string, spaced bool) int {
	if spaced {
		return len(strings.Fields(s))
	}

	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return (letters + 1) / 2
}

// isNonSpacedScript reports whether the text is dominated by a script that
// does not delimit words with spaces (CJK ideographs, Kana, Hangul, Thai).
func isNonSpacedScript(text string) bool {
	nonSpaced := 0
	letters := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if isNonSpacedRune(r) {
			nonSpaced++
		}
	}
	return letters > 0 && nonSpaced*2 > letters
}

// isNonSpacedRune reports whether a rune belongs to a non-spaced script.
func isNonSpacedRune(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK Extension A
		return true
	case r >= 0x3040 && r <= 0x309F: // Hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // Katakana
		return true
	case r >= 0xAC00 && r <= 0xD7AF: // Hangul Syllables
		return true
	case r >= 0x1100 && r <= 0x11FF: // Hangul Jamo
		return true
	case r >= 0x0E00 && r <= 0x0E7F: // Thai
		return true
	}
	return false
}
