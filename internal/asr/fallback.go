package asr

import (
	"context"
	"fmt"

	"scribe/internal/audio"
)

// attemptState tracks the fallback attempt as an explicit state machine
// rather than nested error handling.
type attemptState int

const (
	statePending attemptState = iota
	stateTryPrimary
	stateTrySecondary
	stateSucceeded
	stateFailed
)

// FallbackBackend tries the primary backend (typically an accelerated
// device) and falls back to the secondary (typically CPU) when the primary
// fails. Only when both fail does the combined failure surface.
type FallbackBackend struct {
	Primary   Backend
	Secondary Backend
}

// Transcribe runs the two-step attempt policy.
func (f *FallbackBackend) Transcribe(ctx context.Context, clip audio.Waveform, language string) ([]TimedText, error) {
	state := statePending
	var texts []TimedText
	var primaryErr, secondaryErr error

	for {
		switch state {
		case statePending:
			state = stateTryPrimary
		case stateTryPrimary:
			texts, primaryErr = f.Primary.Transcribe(ctx, clip, language)
			if primaryErr == nil {
				state = stateSucceeded
			} else if ctx.Err() != nil || f.Secondary == nil {
				state = stateFailed
			} else {
				state = stateTrySecondary
			}
		case stateTrySecondary:
			texts, secondaryErr = f.Secondary.Transcribe(ctx, clip, language)
			if secondaryErr == nil {
				state = stateSucceeded
			} else {
				state = stateFailed
			}
		case stateSucceeded:
			return texts, nil
		case stateFailed:
			if secondaryErr != nil {
				return nil, fmt.Errorf("primary failed (%v); fallback failed: %w", primaryErr, secondaryErr)
			}
			return nil, primaryErr
		}
	}
}
