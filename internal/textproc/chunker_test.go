package textproc

import (
	"strings"
	"testing"
)

func TestChunkText_Empty(t *testing.T) {
	if got := ChunkText("   "); got != "" {
		t.Errorf("ChunkText(blank) = %q, want empty", got)
	}
}

func TestChunkText_ShortInputSingleParagraph(t *testing.T) {
	input := "This is a short sentence. Another short one follows."
	got := ChunkText(input)
	if strings.Contains(got, "\n\n") {
		t.Errorf("short input should stay in one paragraph: %q", got)
	}
}

// With N sentences of >=4 words each, every paragraph holds at most 4
// sentences and roughly 50 words, and concatenating the paragraphs
// reproduces the original sentence sequence.
func TestChunkText_RoundTripBound(t *testing.T) {
	sentence := "The quick brown fox jumps over the lazy dog today."
	var b strings.Builder
	const n = 13
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sentence)
	}
	input := b.String()

	got := ChunkText(input)
	paragraphs := strings.Split(got, "\n\n")

	total := 0
	for _, para := range paragraphs {
		count := strings.Count(para, "today.")
		if count > maxSignificantSentences {
			t.Errorf("paragraph has %d sentences, cap is %d: %q", count, maxSignificantSentences, para)
		}
		words := len(strings.Fields(para))
		// One sentence may cross the 50-word budget.
		if words > paragraphTargetWords+len(strings.Fields(sentence)) {
			t.Errorf("paragraph has %d words: %q", words, para)
		}
		total += count
	}
	if total != n {
		t.Errorf("sentence count after chunking = %d, want %d", total, n)
	}

	// Concatenation reproduces the original sequence.
	joined := strings.Join(paragraphs, " ")
	if joined != input {
		t.Errorf("concatenated paragraphs differ from input\n got: %q\nwant: %q", joined, input)
	}
}

func TestChunkText_ManyShortSentences(t *testing.T) {
	// Sentences under 4 words are insignificant; they should not force
	// paragraph breaks on their own.
	input := strings.TrimSpace(strings.Repeat("Yes indeed. ", 6))
	got := ChunkText(input)
	if strings.Contains(got, "\n\n") {
		t.Errorf("insignificant sentences alone should not split paragraphs: %q", got)
	}
}

func TestChunkText_CJKSplitting(t *testing.T) {
	input := "今日は天気がいいです。散歩に行きましょう。"
	got := ChunkText(input)
	if !strings.Contains(got, "。") {
		t.Errorf("CJK terminators must be preserved: %q", got)
	}
	if strings.Count(got, "。") != 2 {
		t.Errorf("sentence content altered: %q", got)
	}
}

func TestWordCount(t *testing.T) {
	if wc := wordCount("one two three", true); wc != 3 {
		t.Errorf("wordCount spaced = %d, want 3", wc)
	}
	if wc := wordCount("今日は天気", false); wc < 2 {
		t.Errorf("wordCount non-spaced = %d, want >= 2", wc)
	}
}

func TestIsNonSpacedScript(t *testing.T) {
	if isNonSpacedScript("Hello world") {
		t.Error("latin text misclassified as non-spaced")
	}
	if !isNonSpacedScript("今日は天気がいいです") {
		t.Error("japanese text not classified as non-spaced")
	}
	if !isNonSpacedScript("안녕하세요") {
		t.Error("hangul text not classified as non-spaced")
	}
}
