package audio

import "math"

// SpanDetector finds speech activity in a waveform. Implementations may
// return an empty list, in which case the whole file is treated as one
// span by the chunk planner.
type SpanDetector interface {
	DetectSpans(w Waveform) []Span
}

// EnergyDetector is a frame-RMS speech detector. Frames whose RMS energy
// exceeds Threshold count as speech; nearby spans separated by less than
// MaxGap are merged, and spans shorter than MinDuration are discarded as
// artifacts.
type EnergyDetector struct {
	Threshold    float64
	FrameSeconds float64
	MaxGap       float64
	MinDuration  float64
}

// NewEnergyDetector returns a detector with the default tuning.
func NewEnergyDetector() *EnergyDetector {
	return &EnergyDetector{
		Threshold:    0.015,
		FrameSeconds: 0.03,
		MaxGap:       0.75,
		MinDuration:  0.4,
	}
}

// DetectSpans returns ordered, non-overlapping speech spans in seconds.
func (d *EnergyDetector) DetectSpans(w Waveform) []Span {
	if w.SampleRate <= 0 || len(w.Samples) == 0 {
		return nil
	}
	frameLen := int(d.FrameSeconds * float64(w.SampleRate))
	if frameLen < 1 {
		frameLen = 1
	}

	var raw []Span
	open := false
	spanStart := 0.0
	for off := 0; off < len(w.Samples); off += frameLen {
		end := off + frameLen
		if end > len(w.Samples) {
			end = len(w.Samples)
		}
		var sum float64
		for _, s := range w.Samples[off:end] {
			sum += float64(s) * float64(s)
		}
		rms := math.Sqrt(sum / float64(end-off))
		t := float64(off) / float64(w.SampleRate)

		if rms >= d.Threshold {
			if !open {
				open = true
				spanStart = t
			}
		} else if open {
			open = false
			raw = append(raw, Span{Start: spanStart, End: t})
		}
	}
	if open {
		raw = append(raw, Span{Start: spanStart, End: w.Duration()})
	}
	return d.mergeSpans(raw)
}

// mergeSpans joins spans separated by less than MaxGap and drops spans
// shorter than MinDuration.
func (d *EnergyDetector) mergeSpans(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	var merged []Span
	current := spans[0]
	for _, next := range spans[1:] {
		if next.Start <= current.End+d.MaxGap {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		if current.Duration() >= d.MinDuration {
			merged = append(merged, current)
		}
		current = next
	}
	if current.Duration() >= d.MinDuration {
		merged = append(merged, current)
	}
	return merged
}
