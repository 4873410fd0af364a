package export

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"scribe/internal/db"
)

func testDocument() Document {
	return Document{
		Meeting: db.Meeting{
			ID:              7,
			CreatedAt:       time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			SourcePath:      "/recordings/standup.wav",
			Language:        "en",
			ModelName:       "faster-whisper:small",
			DurationSeconds: 4.5,
		},
		Segments: []db.Segment{
			{MeetingID: 7, SequenceNumber: 0, Start: 0.0, End: 2.0, Text: "hello"},
			{MeetingID: 7, SequenceNumber: 1, Start: 2.0, End: 4.5, Text: "world"},
		},
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(testDocument(), "pdf", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRenderNoSegments(t *testing.T) {
	doc := testDocument()
	doc.Segments = nil
	_, err := Render(doc, "md", Options{})
	if !errors.Is(err, ErrNoSegments) {
		t.Errorf("err = %v, want ErrNoSegments", err)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("markdown"); got != "md" {
		t.Errorf("Normalize(markdown) = %q, want md", got)
	}
	if got := Normalize("vtt"); got != "" {
		t.Errorf("Normalize(vtt) = %q, want empty", got)
	}
}

func TestMarkdown(t *testing.T) {
	doc := testDocument()
	doc.Summaries = []db.Summary{
		{MeetingID: 7, TemplateName: "general", Fallback: true, Text: "Short recap.\n"},
	}

	out, err := Render(doc, "md", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"# Meeting 7",
		"- Source: `/recordings/standup.wav`",
		"## Summary",
		"Short recap.",
		"## Transcript",
		"[00:00–00:02] hello",
		"[00:02–00:04] world",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q\n%s", want, text)
		}
	}
}

func TestMarkdownOmitsSummaryWhenAbsent(t *testing.T) {
	out, err := Render(testDocument(), "md", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), "## Summary") {
		t.Error("markdown has a summary section for a meeting without summaries")
	}
}

func TestFormatClockUnboundedMinutes(t *testing.T) {
	if got := formatClock(3725.4); got != "62:05" {
		t.Errorf("formatClock(3725.4) = %q, want 62:05", got)
	}
	if got := formatClock(-1); got != "00:00" {
		t.Errorf("formatClock(-1) = %q, want 00:00", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := testDocument()
	doc.Segments = []db.Segment{
		{MeetingID: 7, SequenceNumber: 0, Start: 0.0, End: 2.5004, Text: "precision check"},
		{MeetingID: 7, SequenceNumber: 1, Start: 2.5004, End: 4.123, Text: "second line"},
	}
	doc.Summaries = []db.Summary{
		{MeetingID: 7, CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC), TemplateName: "general", ModelName: "llama-3-8b", Text: "Summary body."},
	}

	out, err := Render(doc, "json", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), `"end": 2.500`) {
		t.Errorf("times not rendered at 3 decimals:\n%s", out)
	}

	back, err := ParseJSON(out)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if back.Meeting.ID != 7 || back.Meeting.ModelName != "faster-whisper:small" {
		t.Errorf("meeting metadata lost: %+v", back.Meeting)
	}
	if len(back.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(back.Segments))
	}
	for i, seg := range back.Segments {
		orig := doc.Segments[i]
		if seg.Text != orig.Text {
			t.Errorf("segment %d text = %q, want %q", i, seg.Text, orig.Text)
		}
		if seg.SequenceNumber != i {
			t.Errorf("segment %d sequence = %d", i, seg.SequenceNumber)
		}
		if math.Abs(seg.Start-orig.Start) > 0.0005 || math.Abs(seg.End-orig.End) > 0.0005 {
			t.Errorf("segment %d times = [%v,%v], want [%v,%v] within 3 decimals",
				i, seg.Start, seg.End, orig.Start, orig.End)
		}
	}
	if len(back.Summaries) != 1 || back.Summaries[0].TemplateName != "general" {
		t.Errorf("summaries lost: %+v", back.Summaries)
	}
}

func TestSRT(t *testing.T) {
	out, err := Render(testDocument(), "srt", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "1\n" +
		"00:00:00,000 --> 00:00:02,000\n" +
		"hello\n" +
		"\n" +
		"2\n" +
		"00:00:02,000 --> 00:00:04,500\n" +
		"world\n"
	if string(out) != want {
		t.Errorf("srt output:\n%s\nwant:\n%s", out, want)
	}
}

func TestSRTMergesWithinMaxCue(t *testing.T) {
	doc := testDocument()
	doc.Segments = []db.Segment{
		{SequenceNumber: 0, Start: 0.0, End: 2.0, Text: "first"},
		{SequenceNumber: 1, Start: 2.0, End: 4.0, Text: "second"},
		{SequenceNumber: 2, Start: 4.0, End: 9.0, Text: "third"},
	}
	out, err := Render(doc, "srt", Options{SRT: SRTOptions{MaxCueSeconds: 5.0}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "first second") {
		t.Errorf("first two segments not merged:\n%s", text)
	}
	// The third would stretch the cue to 9s, past the 5s cap.
	if strings.Contains(text, "second third") {
		t.Errorf("third segment merged past the cap:\n%s", text)
	}
	if !strings.Contains(text, "00:00:00,000 --> 00:00:04,000") {
		t.Errorf("merged cue times wrong:\n%s", text)
	}
}

func TestSRTWrapsAtWordBoundaries(t *testing.T) {
	doc := testDocument()
	doc.Segments = []db.Segment{
		{SequenceNumber: 0, Start: 0, End: 3, Text: "the quick brown fox jumps over the lazy dog"},
	}
	out, err := Render(doc, "srt", Options{SRT: SRTOptions{MaxLineChars: 15}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "-->") || line == "1" {
			continue
		}
		if len(line) > 15 {
			t.Errorf("line %q exceeds 15 chars", line)
		}
	}
	if !strings.Contains(string(out), "the quick brown\n") {
		t.Errorf("unexpected wrap points:\n%s", out)
	}
}

func TestSRTClampsOverlappingCues(t *testing.T) {
	doc := testDocument()
	doc.Segments = []db.Segment{
		{SequenceNumber: 0, Start: 0.0, End: 3.0, Text: "runs long"},
		{SequenceNumber: 1, Start: 2.5, End: 4.0, Text: "starts early"},
	}
	out, err := Render(doc, "srt", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "00:00:00,000 --> 00:00:02,500") {
		t.Errorf("first cue end not clamped to next start:\n%s", out)
	}
}

func TestSRTZeroDurationGetsMinimumWindow(t *testing.T) {
	doc := testDocument()
	doc.Segments = []db.Segment{
		{SequenceNumber: 0, Start: 1.0, End: 1.0, Text: "uh"},
	}
	out, err := Render(doc, "srt", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "00:00:01,000 --> 00:00:01,001") {
		t.Errorf("zero-duration cue not widened:\n%s", out)
	}
}

func TestWrapWordsLongWord(t *testing.T) {
	got := wrapWords("a supercalifragilistic b", 10)
	want := "a\nsupercalifragilistic\nb"
	if got != want {
		t.Errorf("wrapWords = %q, want %q", got, want)
	}
}
