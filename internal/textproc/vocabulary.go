// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     textproc
// Description: User vocabulary replacement
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package textproc

import (
	"regexp"
	"sort"
	"strings"
)

// ApplyVocabulary replaces user-defined phrases case-insensitively. Phrases
// in space-delimited scripts match on word boundaries; phrases containing
// non-spaced scripts (CJK, Kana, Hangul, Thai) match as plain substrings,
// since word boundaries carry no meaning there.
func ApplyVocabulary(text string, vocabulary map[string]string) string {
	if len(vocabulary) == 0 || text == "" {
		return text
	}

	// Longest phrase first so overlapping entries prefer the most specific.
	phrases := make([]string, 0, len(vocabulary))
	for p := range vocabulary {
		if strings.TrimSpace(p) != "" {
			phrases = append(phrases, p)
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		return len(phrases[i]) > len(phrases[j])
	})

	out := text
	for _, phrase := range phrases {
		replacement := vocabulary[phrase]
		if containsNonSpacedScript(phrase) {
			out = replaceSubstringFold(out, phrase, replacement)
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
		if err != nil {
			continue
		}
		out = re.ReplaceAllString(out, replacement)
	}
	return out
}

// replaceSubstringFold replaces every case-insensitive occurrence of old
// with new.
func replaceSubstringFold(s, old, new string) string {
	if old == "" {
		return s
	}

	lower := strings.ToLower(s)
	lowerOld := strings.ToLower(old)

	var b strings.Builder
	for {
		i := strings.Index(lower, lowerOld)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(new)
		s = s[i+len(old):]
		lower = lower[i+len(lowerOld):]
	}
}

// containsNonSpacedScript reports whether any rune belongs to a script
// without word delimiters.
func containsNonSpacedScript(s string) bool {
	for _, r := range s {
		if isNonSpacedRune(r) {
			return true
		}
	}
	return false
}
