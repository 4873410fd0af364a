// Package audio holds the waveform model, the ffmpeg decoder, speech
// activity detection, and the chunk planner that splits long recordings
// into bounded transcription units.
package audio

// Waveform is decoded mono PCM audio at a fixed sample rate.
type Waveform struct {
	SampleRate int
	Samples    []float32
}

// Duration returns the waveform length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Slice returns the samples between start and end seconds. The range is
// clamped to the waveform bounds; the returned slice shares backing memory.
func (w Waveform) Slice(start, end float64) Waveform {
	if w.SampleRate <= 0 {
		return Waveform{SampleRate: w.SampleRate}
	}
	lo := int(start * float64(w.SampleRate))
	hi := int(end * float64(w.SampleRate))
	if lo < 0 {
		lo = 0
	}
	if hi > len(w.Samples) {
		hi = len(w.Samples)
	}
	if lo >= hi {
		return Waveform{SampleRate: w.SampleRate}
	}
	return Waveform{SampleRate: w.SampleRate, Samples: w.Samples[lo:hi]}
}

// Span is a time interval of detected speech activity, in seconds.
type Span struct {
	Start float64
	End   float64
}

// Duration returns the span length in seconds.
func (s Span) Duration() float64 {
	return s.End - s.Start
}
