package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scribe/internal/db"
)

func testMeetings() []db.Meeting {
	return []db.Meeting{
		{ID: 1, CreatedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), SourcePath: "/r/a.wav"},
		{ID: 2, CreatedAt: time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC), SourcePath: "/r/b.wav"},
		{ID: 3, CreatedAt: time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC), SourcePath: "/r/c.wav"},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	m := New(nil)
	if m.focusedPanel != FocusMeetings {
		t.Error("new model should focus the meeting list")
	}
	if m.searching {
		t.Error("new model should not be in search mode")
	}
}

func TestMeetingsLoaded(t *testing.T) {
	m := New(nil)
	m.selected = 5

	updated, cmd := m.Update(MeetingsLoadedMsg{Meetings: testMeetings()})
	model := updated.(Model)

	if model.selected != 2 {
		t.Errorf("selected = %d, want clamped to 2", model.selected)
	}
	if cmd == nil {
		t.Error("loading meetings should trigger a transcript load")
	}
	if !strings.Contains(model.statusText, "3 meeting(s)") {
		t.Errorf("status = %q", model.statusText)
	}
}

func TestMeetingsLoadedEmpty(t *testing.T) {
	m := New(nil)

	updated, cmd := m.Update(MeetingsLoadedMsg{})
	model := updated.(Model)

	if cmd != nil {
		t.Error("no transcript load should fire with no meetings")
	}
	if !strings.Contains(model.statusText, "No meetings") {
		t.Errorf("status = %q", model.statusText)
	}
}

func TestTranscriptLoaded(t *testing.T) {
	m := New(nil)
	m.transcriptScroll = 7

	updated, _ := m.Update(TranscriptLoadedMsg{
		MeetingID: 2,
		Segments:  []db.Segment{{SequenceNumber: 0, Text: "hello"}},
		Summary:   &db.Summary{TemplateName: "general", Text: "Recap."},
	})
	model := updated.(Model)

	if model.loadedMeeting != 2 || len(model.segments) != 1 {
		t.Errorf("transcript not loaded: %+v", model)
	}
	if model.transcriptScroll != 0 {
		t.Error("scroll should reset on load")
	}
}

func TestMeetingNavigation(t *testing.T) {
	m := New(nil)
	m.meetings = testMeetings()

	updated, _ := m.Update(key("j"))
	model := updated.(Model)
	if model.selected != 1 {
		t.Errorf("selected after j = %d, want 1", model.selected)
	}

	updated, _ = model.Update(key("k"))
	model = updated.(Model)
	if model.selected != 0 {
		t.Errorf("selected after k = %d, want 0", model.selected)
	}

	// k at the top stays put.
	updated, _ = model.Update(key("k"))
	model = updated.(Model)
	if model.selected != 0 {
		t.Errorf("selected = %d, want 0", model.selected)
	}
}

func TestTabTogglesFocus(t *testing.T) {
	m := New(nil)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	model := updated.(Model)
	if model.focusedPanel != FocusTranscript {
		t.Error("tab should move focus to the transcript")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(Model)
	if model.focusedPanel != FocusMeetings {
		t.Error("tab should move focus back to the list")
	}
}

func TestSearchEntry(t *testing.T) {
	m := New(nil)

	updated, _ := m.Update(key("/"))
	model := updated.(Model)
	if !model.searching {
		t.Fatal("/ should enter search mode")
	}

	updated, _ = model.Update(key("budget"))
	model = updated.(Model)
	if model.query != "budget" {
		t.Errorf("query = %q", model.query)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	model = updated.(Model)
	if model.query != "budge" {
		t.Errorf("query after backspace = %q", model.query)
	}

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if model.searching {
		t.Error("enter should leave search mode")
	}
	if cmd == nil {
		t.Error("enter with a query should run the search")
	}
}

func TestSearchEscCancels(t *testing.T) {
	m := New(nil)
	m.searching = true
	m.query = "half typed"

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model := updated.(Model)
	if model.searching || model.query != "" {
		t.Error("esc should cancel the pending query")
	}
	if cmd != nil {
		t.Error("esc should not run a search")
	}
}

func TestSearchResults(t *testing.T) {
	m := New(nil)

	updated, _ := m.Update(SearchResultsMsg{
		Query: "budget",
		Hits:  []db.SearchHit{{MeetingID: 1, Snippet: "the [budget] forecast"}},
	})
	model := updated.(Model)
	if !model.showingHits {
		t.Error("results should switch the detail panel to hits")
	}
	if !strings.Contains(model.statusText, `1 match(es) for "budget"`) {
		t.Errorf("status = %q", model.statusText)
	}
}

func TestEscLeavesHitsView(t *testing.T) {
	m := New(nil)
	m.meetings = testMeetings()
	m.showingHits = true

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model := updated.(Model)
	if model.showingHits {
		t.Error("esc should return to the transcript view")
	}
}

func TestStoreError(t *testing.T) {
	m := New(nil)

	updated, _ := m.Update(StoreErrorMsg{Err: errors.New("database is locked")})
	model := updated.(Model)
	if model.errorMessage != "database is locked" {
		t.Errorf("error = %q", model.errorMessage)
	}
}

func TestViewBeforeSize(t *testing.T) {
	m := New(nil)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("view = %q", got)
	}
}

func TestViewRendersPanels(t *testing.T) {
	m := New(nil)
	m.width = 100
	m.height = 30
	m.meetings = testMeetings()
	m.segments = []db.Segment{{Start: 1.5, Text: "hello world"}}
	m.statusText = "3 meeting(s)"

	view := m.View()
	for _, want := range []string{"SCRIBE", "MEETINGS (3)", "TRANSCRIPT", "hello world"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
