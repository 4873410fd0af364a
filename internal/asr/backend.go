// Package asr defines the transcription backend contract and its concrete
// implementations. Backends are black boxes mapping a waveform clip to
// timed text; chunk planning and reconciliation live elsewhere.
package asr

import (
	"context"
	"errors"
	"fmt"

	"scribe/internal/audio"
)

// TimedText is one transcribed unit with clip-local timestamps in seconds.
// Times are relative to the start of the clip passed to Transcribe, never
// to the whole recording.
type TimedText struct {
	Text  string
	Start float64
	End   float64
}

// Backend transcribes a waveform clip. language is a hint ("auto" lets the
// engine detect it).
type Backend interface {
	Transcribe(ctx context.Context, clip audio.Waveform, language string) ([]TimedText, error)
}

// EngineError reports a transcription engine failure. Retryable failures
// (device hiccups, timeouts) may be attempted again by the caller;
// non-retryable ones (missing model, missing binary) are surfaced at once.
type EngineError struct {
	Backend   string
	Retryable bool
	Err       error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("asr backend %s: %v", e.Backend, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is worth retrying: a retryable engine
// failure or an expired per-call deadline.
func IsRetryable(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Retryable
	}
	return errors.Is(err, context.DeadlineExceeded)
}
