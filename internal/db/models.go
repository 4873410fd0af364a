// Package db provides the SQLite system of record: meetings, segments,
// summaries, exports, and the full-text index over segment text.
package db

import "time"

// Meeting is one processed recording. Immutable after creation except via
// deletion, which cascades to everything the meeting owns.
type Meeting struct {
	ID              int64
	CreatedAt       time.Time
	SourcePath      string
	Language        string
	ModelName       string
	DurationSeconds float64
}

// Segment is a persisted transcript unit. SequenceNumber defines the
// authoritative display order; times can tie at chunk boundaries.
type Segment struct {
	ID             int64
	MeetingID      int64
	SequenceNumber int
	Start          float64
	End            float64
	Text           string
}

// NewSegment is the input shape for ingestion, before ids are assigned.
type NewSegment struct {
	SequenceNumber int
	Start          float64
	End            float64
	Text           string
}

// Summary is one generated summary. Fallback marks summaries produced by
// the extractive heuristic rather than a language model.
type Summary struct {
	ID           int64
	MeetingID    int64
	CreatedAt    time.Time
	TemplateName string
	ModelName    string
	Fallback     bool
	Text         string
}

// Export records a rendered export for audit history. Re-rendering the
// same format appends a new row rather than overwriting.
type Export struct {
	ID        int64
	MeetingID int64
	CreatedAt time.Time
	Format    string
	Path      string
}

// SearchHit is one full-text match against segment text.
type SearchHit struct {
	MeetingID      int64
	SegmentID      int64
	SequenceNumber int
	Start          float64
	End            float64
	Text           string
	Snippet        string
	Rank           float64
}
