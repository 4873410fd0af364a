package summarize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"scribe/internal/db"
)

func TestLoadTemplateBuiltin(t *testing.T) {
	text, err := LoadTemplate("engineering", "")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if !strings.Contains(text, "engineering meeting") {
		t.Errorf("builtin prompt = %q", text)
	}
}

func TestLoadTemplateUnknown(t *testing.T) {
	_, err := LoadTemplate("standup", "")
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("err = %v, want ErrUnknownTemplate", err)
	}
	if !strings.Contains(err.Error(), "engineering, general, sales") {
		t.Errorf("error should list known templates: %v", err)
	}
}

func TestLoadTemplateFileOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "Custom sales prompt.\n"
	if err := os.WriteFile(filepath.Join(dir, "summary_sales.md"), []byte(custom), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	text, err := LoadTemplate("sales", dir)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if text != custom {
		t.Errorf("got %q, want the override file", text)
	}

	// Other templates still use the builtin.
	text, err = LoadTemplate("general", dir)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if text != builtinPrompts["general"] {
		t.Errorf("general should fall back to builtin, got %q", text)
	}
}

func TestTemplates(t *testing.T) {
	want := []string{"engineering", "general", "sales"}
	if got := Templates(); !reflect.DeepEqual(got, want) {
		t.Errorf("Templates() = %v, want %v", got, want)
	}
}

func TestExtractiveEmptyTranscript(t *testing.T) {
	got, err := Extractive{}.Summarize(context.Background(), "   ", "general")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "No transcript content was available." {
		t.Errorf("got %q", got)
	}
}

func TestExtractiveUnknownTemplate(t *testing.T) {
	_, err := Extractive{}.Summarize(context.Background(), "Some text.", "nope")
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("err = %v, want ErrUnknownTemplate", err)
	}
}

func TestExtractivePicksFrequentTopics(t *testing.T) {
	transcript := "The budget forecast needs revision. " +
		"Someone mentioned lunch plans. " +
		"Budget numbers came in under forecast again. " +
		"We argued about the forecast budget assumptions."

	got, err := Extractive{MaxSentences: 2}.Summarize(context.Background(), transcript, "general")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if strings.Contains(got, "lunch plans") {
		t.Errorf("off-topic sentence made the summary:\n%s", got)
	}
	if !strings.Contains(got, "Summary (extractive):") {
		t.Errorf("missing header:\n%s", got)
	}

	// Selected sentences keep document order.
	first := strings.Index(got, "The budget forecast needs revision.")
	second := strings.Index(got, "forecast budget assumptions")
	if first == -1 && second == -1 {
		t.Fatalf("no topical sentence selected:\n%s", got)
	}
	if first != -1 && second != -1 && first > second {
		t.Errorf("sentences out of document order:\n%s", got)
	}
}

func TestExtractiveCollectsActionItems(t *testing.T) {
	transcript := "We reviewed the roadmap. " +
		"Action item: Dana will draft the proposal. " +
		"The TODO list keeps growing. " +
		"Next step is a design review."

	got, err := Extractive{}.Summarize(context.Background(), transcript, "general")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(got, "Likely action items:") {
		t.Fatalf("missing action item section:\n%s", got)
	}
	for _, want := range []string{
		"Action item: Dana will draft the proposal.",
		"Next step is a design review.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("action items missing %q:\n%s", want, got)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First point. Second point! A question? Trailing words")
	want := []string{"First point.", "Second point!", "A question?", "Trailing words"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitSentences = %v, want %v", got, want)
	}
}

func TestSplitSentencesKeepsDecimals(t *testing.T) {
	got := splitSentences("Revenue grew 3.5 percent. Good quarter.")
	want := []string{"Revenue grew 3.5 percent.", "Good quarter."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitSentences = %v, want %v", got, want)
	}
}

func TestBuildPromptClipsLongTranscript(t *testing.T) {
	long := strings.Repeat("x", maxPromptChars) + "TAIL"
	prompt := BuildPrompt("Template.", long)
	if !strings.Contains(prompt, "TAIL") {
		t.Error("tail of transcript lost")
	}
	if strings.Count(prompt, "x") == maxPromptChars {
		t.Error("transcript not clipped")
	}
	if !strings.HasPrefix(prompt, "Template.") {
		t.Errorf("prompt should start with the template: %q", prompt[:30])
	}
}

func TestSegmentsText(t *testing.T) {
	got := SegmentsText([]db.Segment{
		{Start: 0, End: 2.5, Text: "hello"},
		{Start: 2.5, End: 4, Text: "world"},
	})
	want := "[0.00-2.50] hello\n[2.50-4.00] world"
	if got != want {
		t.Errorf("SegmentsText = %q, want %q", got, want)
	}
}
