package export

import (
	"fmt"
	"strings"

	"scribe/internal/db"
)

// SRTOptions tunes cue assembly. The zero value is one cue per segment
// with no line wrapping.
type SRTOptions struct {
	// MaxCueSeconds merges consecutive segments into one cue while the
	// combined duration stays within this many seconds. Zero disables
	// merging.
	MaxCueSeconds float64
	// MaxLineChars wraps cue text at word boundaries so no line exceeds
	// this many characters. Words longer than the limit get a line of
	// their own. Zero disables wrapping.
	MaxLineChars int
}

type cue struct {
	start float64
	end   float64
	text  string
}

func renderSRT(segments []db.Segment, opts SRTOptions) string {
	cues := buildCues(segments, opts.MaxCueSeconds)

	for i := range cues {
		// A zero-duration filler still needs a displayable window.
		if cues[i].end <= cues[i].start {
			cues[i].end = cues[i].start + 0.001
		}
		// The clamp wins over the minimum window: cue end must never
		// pass the next cue's start.
		if i+1 < len(cues) && cues[i].end > cues[i+1].start {
			cues[i].end = cues[i+1].start
		}
	}

	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(c.start), formatTimestamp(c.end))
		b.WriteString(wrapWords(c.text, opts.MaxLineChars))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// buildCues folds segments into cues. With maxCueSeconds > 0, a segment
// joins the open cue when the merged duration still fits.
func buildCues(segments []db.Segment, maxCueSeconds float64) []cue {
	var cues []cue
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if maxCueSeconds > 0 && len(cues) > 0 {
			last := &cues[len(cues)-1]
			if seg.End-last.start <= maxCueSeconds {
				last.end = seg.End
				last.text += " " + text
				continue
			}
		}
		cues = append(cues, cue{start: seg.Start, end: seg.End, text: text})
	}
	return cues
}

// formatTimestamp renders seconds as HH:MM:SS,mmm.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(seconds*1000 + 0.5)
	hours := totalMillis / 3_600_000
	totalMillis %= 3_600_000
	minutes := totalMillis / 60_000
	totalMillis %= 60_000
	secs := totalMillis / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// wrapWords breaks text into lines of at most maxChars characters,
// splitting only between words.
func wrapWords(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) <= maxChars {
			line += " " + word
			continue
		}
		lines = append(lines, line)
		line = word
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
