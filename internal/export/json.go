package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"scribe/internal/db"
)

// Seconds is a timestamp serialized with exactly three decimal places, so
// a rendered document parses back to the same values it was built from.
type Seconds float64

func (s Seconds) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(s), 'f', 3, 64)), nil
}

func (s *Seconds) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse seconds: %w", err)
	}
	*s = Seconds(v)
	return nil
}

type jsonMeeting struct {
	ID              int64   `json:"id"`
	CreatedAt       string  `json:"created_at"`
	SourcePath      string  `json:"source_path"`
	Language        string  `json:"language"`
	ModelName       string  `json:"model_name"`
	DurationSeconds Seconds `json:"duration_seconds"`
}

type jsonSummary struct {
	CreatedAt    string `json:"created_at"`
	TemplateName string `json:"template_name"`
	ModelName    string `json:"model_name,omitempty"`
	Fallback     bool   `json:"fallback"`
	Text         string `json:"text"`
}

type jsonSegment struct {
	Start Seconds `json:"start"`
	End   Seconds `json:"end"`
	Text  string  `json:"text"`
}

type jsonDocument struct {
	Meeting   jsonMeeting   `json:"meeting"`
	Summaries []jsonSummary `json:"summaries"`
	Segments  []jsonSegment `json:"segments"`
}

func renderJSON(doc Document) ([]byte, error) {
	out := jsonDocument{
		Meeting: jsonMeeting{
			ID:              doc.Meeting.ID,
			CreatedAt:       doc.Meeting.CreatedAt.UTC().Format(time.RFC3339),
			SourcePath:      doc.Meeting.SourcePath,
			Language:        doc.Meeting.Language,
			ModelName:       doc.Meeting.ModelName,
			DurationSeconds: Seconds(doc.Meeting.DurationSeconds),
		},
		Summaries: make([]jsonSummary, 0, len(doc.Summaries)),
		Segments:  make([]jsonSegment, 0, len(doc.Segments)),
	}
	for _, sum := range doc.Summaries {
		out.Summaries = append(out.Summaries, jsonSummary{
			CreatedAt:    sum.CreatedAt.UTC().Format(time.RFC3339),
			TemplateName: sum.TemplateName,
			ModelName:    sum.ModelName,
			Fallback:     sum.Fallback,
			Text:         sum.Text,
		})
	}
	for _, seg := range doc.Segments {
		out.Segments = append(out.Segments, jsonSegment{
			Start: Seconds(seg.Start),
			End:   Seconds(seg.End),
			Text:  seg.Text,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseJSON reads a rendered json export back into a Document. Segment
// sequence numbers are reassigned from position; database ids are not
// part of the wire shape.
func ParseJSON(data []byte) (Document, error) {
	var in jsonDocument
	if err := json.Unmarshal(data, &in); err != nil {
		return Document{}, fmt.Errorf("parse export: %w", err)
	}

	doc := Document{
		Meeting: db.Meeting{
			ID:              in.Meeting.ID,
			SourcePath:      in.Meeting.SourcePath,
			Language:        in.Meeting.Language,
			ModelName:       in.Meeting.ModelName,
			DurationSeconds: float64(in.Meeting.DurationSeconds),
		},
	}
	if in.Meeting.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339, in.Meeting.CreatedAt)
		if err != nil {
			return Document{}, fmt.Errorf("parse export: meeting created_at: %w", err)
		}
		doc.Meeting.CreatedAt = created
	}
	for _, sum := range in.Summaries {
		s := db.Summary{
			MeetingID:    in.Meeting.ID,
			TemplateName: sum.TemplateName,
			ModelName:    sum.ModelName,
			Fallback:     sum.Fallback,
			Text:         sum.Text,
		}
		if sum.CreatedAt != "" {
			created, err := time.Parse(time.RFC3339, sum.CreatedAt)
			if err != nil {
				return Document{}, fmt.Errorf("parse export: summary created_at: %w", err)
			}
			s.CreatedAt = created
		}
		doc.Summaries = append(doc.Summaries, s)
	}
	for i, seg := range in.Segments {
		doc.Segments = append(doc.Segments, db.Segment{
			MeetingID:      in.Meeting.ID,
			SequenceNumber: i,
			Start:          float64(seg.Start),
			End:            float64(seg.End),
			Text:           seg.Text,
		})
	}
	return doc, nil
}
