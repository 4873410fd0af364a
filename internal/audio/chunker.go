package audio

import "fmt"

// ChunkConfig bounds the chunk planner.
type ChunkConfig struct {
	// MaxChunkSeconds is the hard upper bound on chunk duration.
	MaxChunkSeconds float64
	// MinSilenceGap is the smallest silence usable as a chunk boundary.
	MinSilenceGap float64
	// OverlapSeconds is how far each chunk reaches back before the
	// previous chunk's end, so words near a boundary are heard twice
	// rather than cut.
	OverlapSeconds float64
}

// DefaultChunkConfig returns the planner defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChunkSeconds: 30.0,
		MinSilenceGap:   0.5,
		OverlapSeconds:  1.0,
	}
}

// Chunk is a bounded window of the recording submitted to the ASR engine
// as one unit. Start and End are global timeline seconds.
type Chunk struct {
	Start float64
	End   float64
}

// Duration returns the chunk length in seconds.
func (c Chunk) Duration() float64 {
	return c.End - c.Start
}

// ChunkPlan is the output of BuildChunks. ForcedCuts lists boundary times
// where no usable silence existed and a chunk was closed mid-speech; that
// degrades quality but is not an error.
type ChunkPlan struct {
	Chunks     []Chunk
	ForcedCuts []float64
}

// BuildChunks splits [0, totalDuration) into chunks no longer than
// cfg.MaxChunkSeconds whose union covers the whole timeline with no gaps.
// Spans are the detected speech intervals; an empty list means no VAD was
// run and the split falls back to fixed-size windows. Chunk boundaries
// prefer silence gaps of at least cfg.MinSilenceGap, and each chunk after
// the first starts cfg.OverlapSeconds before its predecessor's end.
func BuildChunks(totalDuration float64, spans []Span, cfg ChunkConfig) (ChunkPlan, error) {
	if cfg.MaxChunkSeconds <= 0 {
		return ChunkPlan{}, fmt.Errorf("chunk planner: max chunk seconds must be positive, got %v", cfg.MaxChunkSeconds)
	}
	if cfg.OverlapSeconds < 0 {
		return ChunkPlan{}, fmt.Errorf("chunk planner: overlap must be non-negative, got %v", cfg.OverlapSeconds)
	}
	if cfg.OverlapSeconds >= cfg.MaxChunkSeconds {
		return ChunkPlan{}, fmt.Errorf("chunk planner: overlap %v must be smaller than max chunk %v", cfg.OverlapSeconds, cfg.MaxChunkSeconds)
	}
	for i := range spans {
		if spans[i].End < spans[i].Start {
			return ChunkPlan{}, fmt.Errorf("chunk planner: span %d ends before it starts", i)
		}
		if i > 0 && spans[i].Start < spans[i-1].End {
			return ChunkPlan{}, fmt.Errorf("chunk planner: spans %d and %d overlap or are out of order", i-1, i)
		}
	}

	var plan ChunkPlan
	if totalDuration <= 0 {
		return plan, nil
	}

	start := 0.0
	for {
		limit := start + cfg.MaxChunkSeconds
		if totalDuration <= limit {
			plan.Chunks = append(plan.Chunks, Chunk{Start: start, End: totalDuration})
			return plan, nil
		}

		closeAt := limit
		if len(spans) > 0 && insideSpeech(spans, limit) {
			if gapEnd, ok := lastGapEnd(spans, start, limit, cfg.MinSilenceGap); ok {
				closeAt = gapEnd
			} else {
				plan.ForcedCuts = append(plan.ForcedCuts, limit)
			}
		}
		plan.Chunks = append(plan.Chunks, Chunk{Start: start, End: closeAt})

		next := closeAt - cfg.OverlapSeconds
		if next < 0 {
			next = 0
		}
		if next <= start {
			// An early silence close can make the overlap reach back past
			// the chunk's own start. Skip the overlap for this boundary so
			// the plan keeps moving forward.
			next = closeAt
		}
		start = next
	}
}

// insideSpeech reports whether t falls strictly inside a speech span.
func insideSpeech(spans []Span, t float64) bool {
	for _, s := range spans {
		if t > s.Start && t < s.End {
			return true
		}
	}
	return false
}

// lastGapEnd finds the latest silence gap of at least minGap that lies
// within (start, limit] and returns the time speech resumes after it.
func lastGapEnd(spans []Span, start, limit, minGap float64) (float64, bool) {
	best := 0.0
	found := false

	prevEnd := start
	for _, s := range spans {
		if s.End <= start {
			prevEnd = s.End
			continue
		}
		gapStart := prevEnd
		if gapStart < start {
			gapStart = start
		}
		gapEnd := s.Start
		if gapEnd > limit {
			gapEnd = limit
		}
		if gapEnd > gapStart && gapEnd-gapStart >= minGap && gapEnd > start {
			if gapEnd > best {
				best = gapEnd
				found = true
			}
		}
		if s.Start > limit {
			break
		}
		prevEnd = s.End
	}
	return best, found
}
