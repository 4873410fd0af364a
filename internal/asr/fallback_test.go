package asr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scribe/internal/audio"
)

// stubBackend returns canned results or a canned error and counts calls.
type stubBackend struct {
	texts []TimedText
	err   error
	calls int
}

func (s *stubBackend) Transcribe(ctx context.Context, clip audio.Waveform, language string) ([]TimedText, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.texts, nil
}

func TestFallbackPrimarySucceeds(t *testing.T) {
	primary := &stubBackend{texts: []TimedText{{Text: "hello", Start: 0, End: 1}}}
	secondary := &stubBackend{}
	fb := &FallbackBackend{Primary: primary, Secondary: secondary}

	texts, err := fb.Transcribe(context.Background(), audio.Waveform{}, "en")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(texts) != 1 || texts[0].Text != "hello" {
		t.Errorf("texts = %v, want one segment %q", texts, "hello")
	}
	if secondary.calls != 0 {
		t.Errorf("secondary called %d times, want 0", secondary.calls)
	}
}

func TestFallbackSecondarySucceeds(t *testing.T) {
	primary := &stubBackend{err: &EngineError{Backend: "gpu", Retryable: true, Err: errors.New("device lost")}}
	secondary := &stubBackend{texts: []TimedText{{Text: "world", Start: 0, End: 1}}}
	fb := &FallbackBackend{Primary: primary, Secondary: secondary}

	texts, err := fb.Transcribe(context.Background(), audio.Waveform{}, "en")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(texts) != 1 || texts[0].Text != "world" {
		t.Errorf("texts = %v, want one segment %q", texts, "world")
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestFallbackBothFail(t *testing.T) {
	primary := &stubBackend{err: errors.New("device lost")}
	secondary := &stubBackend{err: errors.New("model missing")}
	fb := &FallbackBackend{Primary: primary, Secondary: secondary}

	_, err := fb.Transcribe(context.Background(), audio.Waveform{}, "en")
	if err == nil {
		t.Fatal("expected combined error")
	}
	if !strings.Contains(err.Error(), "device lost") || !strings.Contains(err.Error(), "model missing") {
		t.Errorf("error %q should mention both failures", err)
	}
}

func TestFallbackNoSecondary(t *testing.T) {
	want := errors.New("device lost")
	fb := &FallbackBackend{Primary: &stubBackend{err: want}}

	_, err := fb.Transcribe(context.Background(), audio.Waveform{}, "en")
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want primary error", err)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&EngineError{Retryable: true, Err: errors.New("busy")}) {
		t.Error("retryable engine error should be retryable")
	}
	if IsRetryable(&EngineError{Retryable: false, Err: errors.New("no model")}) {
		t.Error("non-retryable engine error should not be retryable")
	}
	if !IsRetryable(context.DeadlineExceeded) {
		t.Error("deadline exceeded should be retryable")
	}
	if IsRetryable(errors.New("other")) {
		t.Error("plain errors should not be retryable")
	}
}
