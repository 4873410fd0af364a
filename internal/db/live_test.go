package db

import (
	"context"
	"fmt"
	"os"
	"testing"
)

// TestLiveDatabase opens the real scribe database and reads meetings.
// Skipped if the database doesn't exist.
func TestLiveDatabase(t *testing.T) {
	dbPath := DefaultDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Skip("database not found at", dbPath)
	}

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	meetings, err := store.ListMeetings(ctx)
	if err != nil {
		t.Fatalf("ListMeetings: %v", err)
	}
	if len(meetings) == 0 {
		fmt.Println("No meetings in database")
		return
	}

	latest := meetings[0]
	fmt.Printf("Latest meeting: id=%d source=%s duration=%.1fs\n",
		latest.ID, latest.SourcePath, latest.DurationSeconds)

	segments, err := store.ListSegments(ctx, latest.ID)
	if err != nil {
		t.Fatalf("ListSegments: %v", err)
	}
	fmt.Printf("Segments: %d\n", len(segments))

	summaries, err := store.ListSummaries(ctx, latest.ID)
	if err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	fmt.Printf("Summaries: %d\n", len(summaries))
}
