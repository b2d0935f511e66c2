package textproc

import "testing"

var testPrompts = []TriggerPrompt{
	{PromptID: "summary", TriggerWords: []string{"summarize", "sum up"}},
	{PromptID: "email", TriggerWords: []string{"email mode"}},
}

func TestDetectTrigger_Leading(t *testing.T) {
	match, ok := DetectTrigger("Summarize this meeting.", testPrompts)
	if !ok {
		t.Fatal("expected a match")
	}
	if match.PromptID != "summary" {
		t.Errorf("PromptID = %q, want summary", match.PromptID)
	}
	if match.Word != "summarize" {
		t.Errorf("Word = %q, want summarize", match.Word)
	}
	if match.Remainder != "This meeting." {
		t.Errorf("Remainder = %q, want %q", match.Remainder, "This meeting.")
	}
}

func TestDetectTrigger_Trailing(t *testing.T) {
	match, ok := DetectTrigger("turn this into a message, email mode.", testPrompts)
	if !ok {
		t.Fatal("expected a match")
	}
	if match.PromptID != "email" {
		t.Errorf("PromptID = %q, want email", match.PromptID)
	}
	if match.Remainder != "Turn this into a message" {
		t.Errorf("Remainder = %q", match.Remainder)
	}
}

func TestDetectTrigger_LongestWordWins(t *testing.T) {
	prompts := []TriggerPrompt{
		{PromptID: "a", TriggerWords: []string{"sum"}},
		{PromptID: "b", TriggerWords: []string{"sum up"}},
	}
	match, ok := DetectTrigger("sum up the discussion", prompts)
	if !ok {
		t.Fatal("expected a match")
	}
	if match.PromptID != "b" || match.Word != "sum up" {
		t.Errorf("longest trigger should win, got %+v", match)
	}
}

func TestDetectTrigger_BothEndsPreferred(t *testing.T) {
	match, ok := DetectTrigger("summarize the notes summarize", testPrompts)
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Remainder != "The notes" {
		t.Errorf("both-end match should strip both, got %q", match.Remainder)
	}
}

func TestDetectTrigger_NoPartialWordMatch(t *testing.T) {
	if _, ok := DetectTrigger("summarized notes follow", testPrompts); ok {
		t.Error("trigger must not match inside a longer word")
	}
}

func TestDetectTrigger_NoMatch(t *testing.T) {
	if _, ok := DetectTrigger("plain dictation text", testPrompts); ok {
		t.Error("unexpected match")
	}
	if _, ok := DetectTrigger("", testPrompts); ok {
		t.Error("empty text must not match")
	}
	if _, ok := DetectTrigger("summarize this", nil); ok {
		t.Error("no prompts must not match")
	}
}
