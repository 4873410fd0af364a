// Package export renders stored transcripts into the supported output
// formats: markdown, json, and srt.
package export

import (
	"errors"
	"fmt"

	"scribe/internal/db"
)

var (
	// ErrUnsupportedFormat reports an unknown format tag.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrNoSegments reports a meeting with nothing to export.
	ErrNoSegments = errors.New("meeting has no segments")
)

// Document is everything a renderer may draw on. Segments are expected in
// sequence order, as ListSegments returns them.
type Document struct {
	Meeting   db.Meeting
	Segments  []db.Segment
	Summaries []db.Summary
}

// Options carries format-specific rendering knobs.
type Options struct {
	SRT SRTOptions
}

// Normalize maps a user-supplied format tag to its canonical form, or ""
// when the tag is unknown. "markdown" and "md" are the same format.
func Normalize(format string) string {
	switch format {
	case "md", "markdown":
		return "md"
	case "json":
		return "json"
	case "srt":
		return "srt"
	}
	return ""
}

// Render produces the meeting artifact for the given format tag.
func Render(doc Document, format string, opts Options) ([]byte, error) {
	tag := Normalize(format)
	if tag == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if len(doc.Segments) == 0 {
		return nil, fmt.Errorf("meeting %d: %w", doc.Meeting.ID, ErrNoSegments)
	}
	switch tag {
	case "md":
		return []byte(renderMarkdown(doc)), nil
	case "json":
		return renderJSON(doc)
	default:
		return []byte(renderSRT(doc.Segments, opts.SRT)), nil
	}
}

// latestSummary returns the most recent summary, or nil when none exists.
func latestSummary(doc Document) *db.Summary {
	if len(doc.Summaries) == 0 {
		return nil
	}
	return &doc.Summaries[len(doc.Summaries)-1]
}
