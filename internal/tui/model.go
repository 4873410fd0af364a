// Package tui is a terminal browser over the transcript store: a meeting
// list on the left, the selected transcript on the right, and full-text
// search over everything.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scribe/internal/db"
	"scribe/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// PanelFocus tracks which panel has keyboard focus.
type PanelFocus int

const (
	FocusMeetings PanelFocus = iota
	FocusTranscript
)

// Model is the root bubbletea model for the scribe TUI.
type Model struct {
	store *db.Store

	// Meeting list
	meetings []db.Meeting
	selected int

	// Loaded transcript
	loadedMeeting int64
	segments      []db.Segment
	summary       *db.Summary

	// Search
	searching   bool // query entry active
	query       string
	hits        []db.SearchHit
	showingHits bool

	// UI state
	focusedPanel     PanelFocus
	width            int
	height           int
	transcriptScroll int

	errorMessage string
	statusText   string
}

// New creates a model backed by an open store.
func New(store *db.Store) Model {
	return Model{
		store:        store,
		focusedPanel: FocusMeetings,
		statusText:   "Loading meetings...",
	}
}

// Run starts the TUI on the alternate screen and blocks until quit.
func Run(store *db.Store) error {
	_, err := tea.NewProgram(New(store), tea.WithAltScreen()).Run()
	return err
}

// Init returns the initial command: load the meeting list.
func (m Model) Init() tea.Cmd {
	return loadMeetingsCmd(m.store)
}

func loadMeetingsCmd(store *db.Store) tea.Cmd {
	return func() tea.Msg {
		meetings, err := store.ListMeetings(context.Background())
		if err != nil {
			return StoreErrorMsg{Err: err}
		}
		return MeetingsLoadedMsg{Meetings: meetings}
	}
}

func loadTranscriptCmd(store *db.Store, meetingID int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		segments, err := store.ListSegments(ctx, meetingID)
		if err != nil {
			return StoreErrorMsg{Err: err}
		}
		summary, err := store.LatestSummary(ctx, meetingID)
		if err != nil {
			return StoreErrorMsg{Err: err}
		}
		return TranscriptLoadedMsg{MeetingID: meetingID, Segments: segments, Summary: summary}
	}
}

func searchCmd(store *db.Store, query string) tea.Cmd {
	return func() tea.Msg {
		hits, err := store.Search(context.Background(), query, 0, 50)
		if err != nil {
			return StoreErrorMsg{Err: err}
		}
		return SearchResultsMsg{Query: query, Hits: hits}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case MeetingsLoadedMsg:
		m.meetings = msg.Meetings
		if m.selected >= len(m.meetings) {
			m.selected = max(0, len(m.meetings)-1)
		}
		if len(m.meetings) == 0 {
			m.statusText = "No meetings stored yet"
			return m, nil
		}
		m.statusText = fmt.Sprintf("%d meeting(s)", len(m.meetings))
		return m, loadTranscriptCmd(m.store, m.meetings[m.selected].ID)

	case TranscriptLoadedMsg:
		m.loadedMeeting = msg.MeetingID
		m.segments = msg.Segments
		m.summary = msg.Summary
		m.transcriptScroll = 0
		return m, nil

	case SearchResultsMsg:
		m.hits = msg.Hits
		m.showingHits = true
		m.statusText = fmt.Sprintf("%d match(es) for %q", len(msg.Hits), msg.Query)
		return m, nil

	case StoreErrorMsg:
		m.errorMessage = msg.Err.Error()
		return m, nil
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit

	case KeySearch:
		m.searching = true
		m.query = ""
		m.errorMessage = ""
		return m, nil

	case KeyEsc:
		if m.showingHits {
			m.showingHits = false
			m.statusText = fmt.Sprintf("%d meeting(s)", len(m.meetings))
		}
		return m, nil

	case KeyTab:
		if m.focusedPanel == FocusMeetings {
			m.focusedPanel = FocusTranscript
		} else {
			m.focusedPanel = FocusMeetings
		}
		return m, nil

	case KeyJ, KeyDown:
		if m.focusedPanel == FocusMeetings {
			if m.selected < len(m.meetings)-1 {
				m.selected++
			}
			return m, nil
		}
		if m.transcriptScroll < m.maxTranscriptScroll() {
			m.transcriptScroll++
		}
		return m, nil

	case KeyK, KeyUp:
		if m.focusedPanel == FocusMeetings {
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		}
		if m.transcriptScroll > 0 {
			m.transcriptScroll--
		}
		return m, nil

	case KeyEnter:
		if m.focusedPanel == FocusMeetings && m.selected < len(m.meetings) {
			m.showingHits = false
			return m, loadTranscriptCmd(m.store, m.meetings[m.selected].ID)
		}
		return m, nil
	}

	return m, nil
}

// handleSearchKey edits the pending query.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
		return m, nil

	case tea.KeyEnter:
		m.searching = false
		query := strings.TrimSpace(m.query)
		if query == "" {
			return m, nil
		}
		return m, searchCmd(m.store, query)

	case tea.KeyBackspace:
		if m.query != "" {
			runes := []rune(m.query)
			m.query = string(runes[:len(runes)-1])
		}
		return m, nil

	case tea.KeySpace:
		m.query += " "
		return m, nil

	case tea.KeyRunes:
		m.query += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m Model) maxTranscriptScroll() int {
	total := len(m.segments)
	visible := m.contentHeight()
	if total <= visible {
		return 0
	}
	return total - visible
}

func (m Model) contentHeight() int {
	if m.height == 0 {
		return 20
	}
	// header(1) + status(1) + divider(1) + divider(1) + footer(1)
	return max(5, m.height-6)
}

func (m Model) meetingPanelWidth() int {
	if m.width == 0 {
		return 34
	}
	return max(24, m.width*35/100)
}

func (m Model) transcriptPanelWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(30, m.width-m.meetingPanelWidth()-3)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderMainContent())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("SCRIBE")
	if m.searching {
		return title + "  " + ui.SearchPromptStyle.Render("/"+m.query+"▌")
	}
	return title
}

func (m Model) renderStatusBar() string {
	return ui.StatusStyle.Render(m.statusText)
}

func (m Model) renderMainContent() string {
	listW := m.meetingPanelWidth()
	detailW := m.transcriptPanelWidth()
	contentH := m.contentHeight()

	listPanel := m.renderMeetingPanel(listW, contentH)
	var detailPanel string
	if m.showingHits {
		detailPanel = m.renderHitsPanel(detailW, contentH)
	} else {
		detailPanel = m.renderTranscriptPanel(detailW, contentH)
	}

	divider := ui.DividerStyle.Render("│")
	listLines := strings.Split(listPanel, "\n")
	detailLines := strings.Split(detailPanel, "\n")

	var rows []string
	for i := 0; i < contentH; i++ {
		left := strings.Repeat(" ", listW)
		if i < len(listLines) {
			left = listLines[i]
		}
		right := ""
		if i < len(detailLines) {
			right = detailLines[i]
		}
		rows = append(rows, left+divider+right)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderMeetingPanel(width, height int) string {
	var header string
	if m.focusedPanel == FocusMeetings {
		header = ui.PanelTitleActiveStyle.Render(fmt.Sprintf("MEETINGS (%d)", len(m.meetings)))
	} else {
		header = ui.PanelTitleStyle.Render(fmt.Sprintf("MEETINGS (%d)", len(m.meetings)))
	}

	lines := []string{padRight(header, width)}

	if len(m.meetings) == 0 {
		lines = append(lines, ui.DimStyle.Render("  Nothing here yet"))
		lines = append(lines, ui.DimStyle.Render("  Run: scribe transcribe <file>"))
	} else {
		for i, meeting := range m.meetings {
			label := fmt.Sprintf("%d  %s", meeting.ID, meeting.CreatedAt.Format("2006-01-02 15:04"))
			var line string
			if i == m.selected && m.focusedPanel == FocusMeetings {
				line = ui.SelectedStyle.Render("> " + label)
			} else {
				line = "  " + label
			}
			lines = append(lines, truncateToWidth(line, width))
		}
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = padRight(l, width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTranscriptPanel(width, height int) string {
	var header string
	if m.focusedPanel == FocusTranscript {
		header = ui.PanelTitleActiveStyle.Render("TRANSCRIPT")
	} else {
		header = ui.PanelTitleStyle.Render("TRANSCRIPT")
	}

	lines := []string{header}

	if len(m.segments) == 0 {
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  No transcript loaded"))
	} else {
		// Prefix: "  [NNNN.N] " = ~11 chars visible
		prefixWidth := 11
		textWidth := max(10, width-prefixWidth-2)
		indent := strings.Repeat(" ", prefixWidth)

		var displayLines []string
		if m.summary != nil {
			displayLines = append(displayLines, ui.SummaryLabelStyle.Render("Summary ("+m.summary.TemplateName+"):"))
			for _, wl := range wrapText(m.summary.Text, textWidth) {
				displayLines = append(displayLines, ui.DimStyle.Render(wl))
			}
			displayLines = append(displayLines, "")
		}
		for _, seg := range m.segments {
			ts := ui.TimestampStyle.Render(fmt.Sprintf("[%6.1f]", seg.Start))
			wrapped := wrapText(seg.Text, textWidth)
			displayLines = append(displayLines, ts+" "+wrapped[0])
			for _, wl := range wrapped[1:] {
				displayLines = append(displayLines, indent+wl)
			}
		}

		contentHeight := height - 1
		start := m.transcriptScroll
		if start > len(displayLines) {
			start = len(displayLines)
		}
		end := start + contentHeight
		if end > len(displayLines) {
			end = len(displayLines)
		}
		for i := start; i < end; i++ {
			lines = append(lines, "  "+displayLines[i])
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHitsPanel(width, height int) string {
	header := ui.PanelTitleActiveStyle.Render(fmt.Sprintf("SEARCH (%d)", len(m.hits)))
	lines := []string{header}

	if len(m.hits) == 0 {
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  No matches"))
	} else {
		textWidth := max(10, width-4)
		for _, hit := range m.hits {
			label := ui.TimestampStyle.Render(fmt.Sprintf("meeting %d [%6.1f]", hit.MeetingID, hit.Start))
			lines = append(lines, label)
			for _, wl := range wrapText(hit.Snippet, textWidth) {
				lines = append(lines, "  "+wl)
			}
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	var parts []string
	parts = append(parts, ui.FooterKeyStyle.Render("j/k")+ui.FooterDescStyle.Render(" Nav"))
	parts = append(parts, ui.FooterKeyStyle.Render("Enter")+ui.FooterDescStyle.Render(" Open"))
	parts = append(parts, ui.FooterKeyStyle.Render("Tab")+ui.FooterDescStyle.Render(" Focus"))
	parts = append(parts, ui.FooterKeyStyle.Render("/")+ui.FooterDescStyle.Render(" Search"))
	if m.showingHits {
		parts = append(parts, ui.FooterKeyStyle.Render("Esc")+ui.FooterDescStyle.Render(" Back"))
	}
	parts = append(parts, ui.FooterKeyStyle.Render("q")+ui.FooterDescStyle.Render(" Quit"))
	return strings.Join(parts, "  ")
}

// Helpers

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
