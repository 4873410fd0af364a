package asr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"scribe/internal/audio"
)

// ExecBackend runs an external transcription helper. The helper receives a
// WAV file path plus model/language/device flags and prints JSON with the
// detected language and segment list on stdout.
type ExecBackend struct {
	Command string
	Model   string
	Device  string // auto|cpu|cuda
	TempDir string
}

type execOutput struct {
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe writes the clip to a temp WAV, invokes the helper, and parses
// its JSON output into clip-local timed text.
func (b *ExecBackend) Transcribe(ctx context.Context, clip audio.Waveform, language string) ([]TimedText, error) {
	dir := b.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	wavPath := filepath.Join(dir, "scribe_clip_"+uuid.NewString()[:8]+".wav")
	if err := audio.WriteWAV(wavPath, clip); err != nil {
		return nil, &EngineError{Backend: b.Command, Retryable: false, Err: err}
	}
	defer os.Remove(wavPath)

	args := []string{"--audio", wavPath, "--model", b.Model}
	if language != "" {
		args = append(args, "--language", language)
	}
	if b.Device != "" {
		args = append(args, "--device", b.Device)
	}

	cmd := exec.CommandContext(ctx, b.Command, args...)
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &EngineError{Backend: b.Command, Retryable: false, Err: err}
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			detail := strings.TrimSpace(string(ee.Stderr))
			if detail == "" {
				detail = ee.String()
			}
			return nil, &EngineError{Backend: b.Command, Retryable: true, Err: fmt.Errorf("%s", detail)}
		}
		return nil, &EngineError{Backend: b.Command, Retryable: true, Err: err}
	}

	var parsed execOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, &EngineError{Backend: b.Command, Retryable: false, Err: fmt.Errorf("parse helper output: %w", err)}
	}

	texts := make([]TimedText, 0, len(parsed.Segments))
	for _, s := range parsed.Segments {
		texts = append(texts, TimedText{Text: s.Text, Start: s.Start, End: s.End})
	}
	return texts, nil
}
