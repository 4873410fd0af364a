package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// DecodeError reports a failed or unsupported audio decode.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder turns an audio file into a fixed-format waveform.
type Decoder interface {
	Decode(ctx context.Context, path string) (Waveform, error)
}

// FFmpegDecoder shells out to ffmpeg to decode any supported container
// into mono PCM at a fixed sample rate.
type FFmpegDecoder struct {
	FFmpegPath string
	SampleRate int
}

// NewFFmpegDecoder returns a decoder producing mono 16 kHz audio.
func NewFFmpegDecoder(ffmpegPath string) *FFmpegDecoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpegDecoder{FFmpegPath: ffmpegPath, SampleRate: 16000}
}

// Decode runs ffmpeg and converts its raw s16le output to float32 samples.
func (d *FFmpegDecoder) Decode(ctx context.Context, path string) (Waveform, error) {
	if _, err := os.Stat(path); err != nil {
		return Waveform{}, &DecodeError{Path: path, Err: err}
	}

	// ffmpeg -i input -f s16le -acodec pcm_s16le -ac 1 -ar 16000 pipe:1
	cmd := exec.CommandContext(ctx, d.FFmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-f", "s16le", "-acodec", "pcm_s16le",
		"-ac", "1", "-ar", strconv.Itoa(d.SampleRate),
		"pipe:1",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return Waveform{}, &DecodeError{Path: path, Err: fmt.Errorf("ffmpeg: %s", detail)}
		}
		return Waveform{}, &DecodeError{Path: path, Err: fmt.Errorf("ffmpeg: %w", err)}
	}

	raw := stdout.Bytes()
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float32(v) / 32768.0
	}
	return Waveform{SampleRate: d.SampleRate, Samples: samples}, nil
}

// WriteWAV writes the waveform as a 16-bit PCM WAV file.
func WriteWAV(path string, w Waveform) error {
	data := make([]byte, 44+len(w.Samples)*2)
	copy(data[0:4], "RIFF")
	binary.LittleEndian.PutUint32(data[4:8], uint32(36+len(w.Samples)*2))
	copy(data[8:12], "WAVE")
	copy(data[12:16], "fmt ")
	binary.LittleEndian.PutUint32(data[16:20], 16)
	binary.LittleEndian.PutUint16(data[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(data[22:24], 1) // mono
	binary.LittleEndian.PutUint32(data[24:28], uint32(w.SampleRate))
	binary.LittleEndian.PutUint32(data[28:32], uint32(w.SampleRate*2))
	binary.LittleEndian.PutUint16(data[32:34], 2)
	binary.LittleEndian.PutUint16(data[34:36], 16)
	copy(data[36:40], "data")
	binary.LittleEndian.PutUint32(data[40:44], uint32(len(w.Samples)*2))
	for i, s := range w.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(data[44+i*2:], uint16(int16(s*32767)))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}
