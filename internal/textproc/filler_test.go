package textproc

import (
	"strings"
	"testing"
)

func TestStripArtifacts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bracket and filler with comma absorption",
			input:    "Hello, [laughs] that's um great.",
			expected: "Hello, that's great.",
		},
		{
			name:     "parenthesized annotation",
			input:    "So (music) here we are.",
			expected: "So here we are.",
		},
		{
			name:     "braced annotation",
			input:    "Right {applause} then.",
			expected: "Right then.",
		},
		{
			name:     "paired tag block",
			input:    "Before <HALLUC>ghost words here</HALLUC> after.",
			expected: "Before after.",
		},
		{
			name:     "filler with trailing punctuation",
			input:    "I think, um, we should go.",
			expected: "I think, we should go.",
		},
		{
			name:     "filler at sentence start",
			input:    "Um. So this works.",
			expected: "So this works.",
		},
		{
			name:     "filler inside word untouched",
			input:    "The umbrella and the summer were fine.",
			expected: "The umbrella and the summer were fine.",
		},
		{
			name:     "whitespace collapsed",
			input:    "too   many    spaces",
			expected: "too many spaces",
		},
		{
			name:     "empty after stripping",
			input:    "[BLANK_AUDIO]",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripArtifacts(tt.input); got != tt.expected {
				t.Errorf("StripArtifacts(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Every surviving word must appear in the input; no non-filler word may be
// altered.
func TestStripArtifacts_SubsetProperty(t *testing.T) {
	input := "Well um I think uh the answer, hmm, is forty-two exactly."

	inputWords := make(map[string]int)
	for _, w := range strings.Fields(strings.ToLower(input)) {
		inputWords[strings.Trim(w, ".,!?;:")]++
	}

	out := StripArtifacts(input)
	for _, w := range strings.Fields(strings.ToLower(out)) {
		w = strings.Trim(w, ".,!?;:")
		if inputWords[w] == 0 {
			t.Errorf("output word %q not present in input", w)
		}
		inputWords[w]--
	}

	for _, filler := range FillerWords() {
		if strings.Contains(" "+strings.ToLower(out)+" ", " "+filler+" ") {
			t.Errorf("filler %q survived: %q", filler, out)
		}
	}
}

func TestStripArtifacts_Idempotent(t *testing.T) {
	inputs := []string{
		"Clean text with no artifacts at all.",
		"Hello, [laughs] that's um great.",
		"Mixed (noise) and <T>tagged</T> content um here.",
	}
	for _, in := range inputs {
		once := StripArtifacts(in)
		twice := StripArtifacts(once)
		if once != twice {
			t.Errorf("not idempotent: first %q, second %q", once, twice)
		}
	}
}
