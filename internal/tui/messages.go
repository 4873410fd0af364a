package tui

import "scribe/internal/db"

// MeetingsLoadedMsg carries the meeting list from SQLite.
type MeetingsLoadedMsg struct {
	Meetings []db.Meeting
}

// TranscriptLoadedMsg carries one meeting's segments and latest summary.
type TranscriptLoadedMsg struct {
	MeetingID int64
	Segments  []db.Segment
	Summary   *db.Summary
}

// SearchResultsMsg carries full-text search hits.
type SearchResultsMsg struct {
	Query string
	Hits  []db.SearchHit
}

// StoreErrorMsg reports a failed database operation.
type StoreErrorMsg struct {
	Err error
}
