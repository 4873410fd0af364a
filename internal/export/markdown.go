package export

import (
	"fmt"
	"math"
	"strings"
)

// renderMarkdown builds the human-readable transcript: meeting header,
// the latest summary when one exists, then one line per segment.
func renderMarkdown(doc Document) string {
	m := doc.Meeting

	var b strings.Builder
	fmt.Fprintf(&b, "# Meeting %d\n\n", m.ID)
	fmt.Fprintf(&b, "- Created: %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Source: `%s`\n", m.SourcePath)
	fmt.Fprintf(&b, "- Language: `%s`\n", m.Language)
	fmt.Fprintf(&b, "- Model: `%s`\n", m.ModelName)
	fmt.Fprintf(&b, "- Duration: `%.2fs`\n\n", m.DurationSeconds)

	if sum := latestSummary(doc); sum != nil {
		b.WriteString("## Summary\n\n")
		b.WriteString(strings.TrimSpace(sum.Text))
		b.WriteString("\n\n")
	}

	b.WriteString("## Transcript\n\n")
	for _, seg := range doc.Segments {
		fmt.Fprintf(&b, "[%s–%s] %s\n", formatClock(seg.Start), formatClock(seg.End), seg.Text)
	}
	return b.String()
}

// formatClock renders seconds as mm:ss. Minutes are not capped at 59, so
// a two-hour meeting reads 120:00 rather than rolling over.
func formatClock(seconds float64) string {
	total := int(math.Floor(math.Max(seconds, 0)))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
