package textproc

import "testing"

func TestPipeline_Order(t *testing.T) {
	p := NewPipeline(Options{
		FormatText: false,
		Vocabulary: map[string]string{"jira": "Jira"},
		Prompts:    testPrompts,
	}, nil)

	res := p.Process("Summarize um the jira [laughs] backlog.")
	if res.Trigger == nil {
		t.Fatal("expected trigger match")
	}
	if res.Trigger.PromptID != "summary" {
		t.Errorf("PromptID = %q", res.Trigger.PromptID)
	}
	if res.Text != "The Jira backlog." {
		t.Errorf("Text = %q, want %q", res.Text, "The Jira backlog.")
	}
}

func TestPipeline_NoTrigger(t *testing.T) {
	p := NewPipeline(Options{Vocabulary: nil, Prompts: testPrompts}, nil)

	res := p.Process("Just a plain thought.")
	if res.Trigger != nil {
		t.Errorf("unexpected trigger: %+v", res.Trigger)
	}
	if res.Text != "Just a plain thought." {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestPipeline_EmptyAfterStripping(t *testing.T) {
	p := NewPipeline(Options{}, nil)
	res := p.Process("[BLANK_AUDIO] um")
	if res.Text != "" {
		t.Errorf("Text = %q, want empty", res.Text)
	}
}

// Running the pipeline twice over trigger-free, filler-free text yields the
// same output as running it once.
func TestPipeline_Idempotent(t *testing.T) {
	p := NewPipeline(Options{
		Vocabulary: map[string]string{"jira": "Jira"},
		Prompts:    testPrompts,
	}, nil)

	input := "A perfectly ordinary sentence about the Jira backlog."
	once := p.Process(input)
	twice := p.Process(once.Text)
	if once.Text != twice.Text {
		t.Errorf("pipeline not idempotent: %q vs %q", once.Text, twice.Text)
	}
}
