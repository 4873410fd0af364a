// Package transcript reconciles per-chunk transcription results into one
// globally time-consistent segment sequence.
package transcript

import (
	"fmt"
	"math"
	"strings"

	"scribe/internal/asr"
	"scribe/internal/audio"
)

// Segment is a reconciled transcript unit on the global timeline.
// Index is the authoritative display order: two segments may share a
// start time at a chunk boundary, so ordering by timestamp alone is not
// stable.
type Segment struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Config tunes overlap de-duplication.
type Config struct {
	// OverlapSeconds must match the chunk planner's overlap; it bounds
	// the window where boundary duplicates are expected.
	OverlapSeconds float64
	// DedupSimilarity is the minimum normalized-text similarity for two
	// boundary segments to count as the same utterance.
	DedupSimilarity float64
	// StartTolerance is how far a segment's start may precede the
	// previous segment's end before it is clamped. Zero means use
	// OverlapSeconds.
	StartTolerance float64
}

// DefaultConfig returns the reconciler defaults.
func DefaultConfig() Config {
	return Config{
		OverlapSeconds:  1.0,
		DedupSimilarity: 0.8,
	}
}

// Reconcile translates chunk-local transcription results into one ordered
// segment list with global times and sequence indices. chunks and results
// must have the same length and order; a mismatch is a caller contract
// violation and fails immediately.
//
// Because consecutive chunks overlap, text near a chunk's trailing edge
// tends to reappear at the next chunk's leading edge. When the previous
// chunk's last segment and the next chunk's first segment sit within the
// overlap window and their normalized text is similar enough, the later
// copy is dropped: the earlier chunk heard that audio nearer its center,
// where the engine has more acoustic context.
func Reconcile(chunks []audio.Chunk, results [][]asr.TimedText, cfg Config) ([]Segment, error) {
	if len(chunks) != len(results) {
		return nil, fmt.Errorf("reconcile: %d chunks but %d transcripts", len(chunks), len(results))
	}
	tolerance := cfg.StartTolerance
	if tolerance == 0 {
		tolerance = cfg.OverlapSeconds
	}

	var out []Segment
	for ci, chunk := range chunks {
		first := true
		for _, tt := range results[ci] {
			text := normalize(tt.Text)
			if text == "" {
				continue
			}
			start := chunk.Start + tt.Start
			end := chunk.Start + tt.End
			if end < start {
				end = start
			}

			if first && ci > 0 && len(out) > 0 {
				prev := out[len(out)-1]
				if math.Abs(start-prev.End) < cfg.OverlapSeconds && similarity(prev.Text, text) >= cfg.DedupSimilarity {
					first = false
					continue
				}
			}
			first = false

			if len(out) > 0 {
				prev := out[len(out)-1]
				if start < prev.End-tolerance {
					start = prev.End
				}
				if start < prev.Start {
					start = prev.Start
				}
				if end < start {
					end = start
				}
			}

			out = append(out, Segment{Start: start, End: end, Text: text})
		}
	}

	for i := range out {
		out[i].Index = i
	}
	return out, nil
}

// normalize trims and collapses whitespace, preserving case.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// similarity compares two normalized texts case-insensitively. Equal texts
// score 1; when one is a prefix or suffix of the other, the score is the
// shared fraction of the longer text; otherwise 0.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(longer) == 0 {
		return 0
	}
	if strings.HasPrefix(longer, shorter) || strings.HasSuffix(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}
	return 0
}
