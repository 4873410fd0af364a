// Package output formats user-facing CLI messages.
package output

import (
	"fmt"
	"io"
	"time"

	"scribe/internal/db"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) Transcribing(path string) {
	fmt.Fprintf(f.w, "📝 Transcribing %s...\n", path)
}

func (f *Formatter) TranscribeDone(meetingID int64, segments, chunks int) {
	fmt.Fprintf(f.w, "✅ Meeting %d stored: %d segments from %d chunks\n", meetingID, segments, chunks)
}

func (f *Formatter) ForcedCuts(cuts []float64) {
	if len(cuts) == 0 {
		return
	}
	fmt.Fprintf(f.w, "⚠️  %d chunk(s) were cut mid-speech; transcript quality may dip near those points\n", len(cuts))
}

func (f *Formatter) Summarizing(template string) {
	fmt.Fprintf(f.w, "🤖 Generating %s summary...\n", template)
}

func (f *Formatter) SummaryDone(fallback bool) {
	if fallback {
		fmt.Fprintf(f.w, "✅ Summary stored (extractive fallback, no model configured)\n")
		return
	}
	fmt.Fprintf(f.w, "✅ Summary stored\n")
}

func (f *Formatter) ExportDone(path string) {
	fmt.Fprintf(f.w, "✅ Export written: %s\n", path)
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) MeetingListHeader() {
	fmt.Fprintf(f.w, "📁 Meetings:\n\n")
}

func (f *Formatter) MeetingListItem(m db.Meeting) {
	fmt.Fprintf(f.w, "  %4d  %s  %-28s  %s\n",
		m.ID,
		m.CreatedAt.Format("2006-01-02 15:04"),
		truncate(m.SourcePath, 28),
		formatDuration(time.Duration(m.DurationSeconds*float64(time.Second))),
	)
}

func (f *Formatter) SearchHit(hit db.SearchHit) {
	fmt.Fprintf(f.w, "  meeting %d  seg %d  [%.1fs]  %s\n", hit.MeetingID, hit.SequenceNumber, hit.Start, hit.Snippet)
}

func (f *Formatter) DoctorCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "…" + s[len(s)-max+1:]
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
