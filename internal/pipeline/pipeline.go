// Package pipeline sequences the transcription stages: decode, span
// detection, chunking, parallel ASR, reconciliation, and storage. It is
// the layer CLI and UI front ends call.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scribe/internal/asr"
	"scribe/internal/audio"
	"scribe/internal/db"
	"scribe/internal/export"
	"scribe/internal/summarize"
	"scribe/internal/transcript"
)

// Config tunes one orchestrator instance.
type Config struct {
	Chunking  audio.ChunkConfig
	Reconcile transcript.Config

	// Workers caps parallel ASR calls. The engine is the only blocking
	// stage; everything else runs synchronously.
	Workers int
	// MaxRetries is how many times a failed chunk is retried before the
	// whole ingest fails.
	MaxRetries int
	// RetryDelay is the flat pause between attempts on the same chunk.
	RetryDelay time.Duration
	// CallTimeout bounds each individual ASR call. Zero means no bound
	// beyond the caller's context.
	CallTimeout time.Duration

	Language     string // language hint, "auto" lets the engine detect
	ModelName    string // recorded on the meeting
	SummaryModel string // recorded on model-generated summaries
	ExportsDir   string
}

// DefaultConfig returns the orchestrator defaults.
func DefaultConfig() Config {
	return Config{
		Chunking:   audio.DefaultChunkConfig(),
		Reconcile:  transcript.DefaultConfig(),
		Workers:    2,
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
		Language:   "auto",
	}
}

// ChunkError reports which chunk sank an ingest.
type ChunkError struct {
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// Orchestrator wires the collaborators together. The ASR backend handle
// is passed in explicitly: model state is expensive and shared, so its
// lifetime belongs to the caller, not to this layer.
type Orchestrator struct {
	store      *db.Store
	decoder    audio.Decoder
	detector   audio.SpanDetector
	backend    asr.Backend
	summarizer summarize.Summarizer
	cfg        Config
}

// New builds an orchestrator. detector and summarizer may be nil: no
// detector means the whole file is treated as one speech span, and no
// summarizer routes Summarize to the extractive fallback.
func New(store *db.Store, decoder audio.Decoder, detector audio.SpanDetector, backend asr.Backend, summarizer summarize.Summarizer, cfg Config) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Orchestrator{
		store:      store,
		decoder:    decoder,
		detector:   detector,
		backend:    backend,
		summarizer: summarizer,
		cfg:        cfg,
	}
}

// TranscribeResult reports a completed ingest.
type TranscribeResult struct {
	Meeting      db.Meeting
	SegmentCount int
	ChunkCount   int
	// ForcedCuts lists timestamps where a chunk was cut mid-speech.
	// Quality may dip near these points; the ingest still succeeds.
	ForcedCuts []float64
}

// TranscribeFile runs the full pipeline for one recording. The meeting
// row is created only after every chunk has transcribed, so a failed run
// leaves no partial meeting behind.
func (o *Orchestrator) TranscribeFile(ctx context.Context, path string) (TranscribeResult, error) {
	wave, err := o.decoder.Decode(ctx, path)
	if err != nil {
		return TranscribeResult{}, err
	}

	var spans []audio.Span
	if o.detector != nil {
		spans = o.detector.DetectSpans(wave)
	}

	plan, err := audio.BuildChunks(wave.Duration(), spans, o.cfg.Chunking)
	if err != nil {
		return TranscribeResult{}, err
	}

	results, err := o.transcribeChunks(ctx, wave, plan.Chunks)
	if err != nil {
		return TranscribeResult{}, fmt.Errorf("transcribe %s: %w", path, err)
	}

	segments, err := transcript.Reconcile(plan.Chunks, results, o.cfg.Reconcile)
	if err != nil {
		return TranscribeResult{}, err
	}

	meeting, err := o.store.CreateMeeting(ctx, db.NewMeeting{
		SourcePath:      path,
		Language:        o.cfg.Language,
		ModelName:       o.cfg.ModelName,
		DurationSeconds: wave.Duration(),
	})
	if err != nil {
		return TranscribeResult{}, err
	}

	rows := make([]db.NewSegment, 0, len(segments))
	for _, seg := range segments {
		rows = append(rows, db.NewSegment{
			SequenceNumber: seg.Index,
			Start:          seg.Start,
			End:            seg.End,
			Text:           seg.Text,
		})
	}
	if err := o.store.IngestSegments(ctx, meeting.ID, rows); err != nil {
		return TranscribeResult{}, err
	}

	return TranscribeResult{
		Meeting:      meeting,
		SegmentCount: len(rows),
		ChunkCount:   len(plan.Chunks),
		ForcedCuts:   plan.ForcedCuts,
	}, nil
}

// transcribeChunks fans chunk jobs out to a bounded worker pool. Results
// land in a slice indexed by chunk position, so completion order never
// affects reconciliation order.
func (o *Orchestrator) transcribeChunks(ctx context.Context, wave audio.Waveform, chunks []audio.Chunk) ([][]asr.TimedText, error) {
	workers := o.cfg.Workers
	if workers > len(chunks) {
		workers = len(chunks)
	}

	results := make([][]asr.TimedText, len(chunks))
	errs := make([]error, len(chunks))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				clip := wave.Slice(chunks[idx].Start, chunks[idx].End)
				results[idx], errs[idx] = o.transcribeOne(ctx, clip)
			}
		}()
	}
	for idx := range chunks {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for idx, err := range errs {
		if err != nil {
			return nil, &ChunkError{Index: idx, Err: err}
		}
	}
	return results, nil
}

// transcribeOne calls the backend with retries. Only retryable engine
// failures and timeouts are retried, with a flat delay between attempts.
func (o *Orchestrator) transcribeOne(ctx context.Context, clip audio.Waveform) ([]asr.TimedText, error) {
	var lastErr error
	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		if attempt > 0 && o.cfg.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.cfg.RetryDelay):
			}
		}

		callCtx := ctx
		cancel := context.CancelFunc(func() {})
		if o.cfg.CallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, o.cfg.CallTimeout)
		}
		texts, err := o.backend.Transcribe(callCtx, clip, o.cfg.Language)
		cancel()
		if err == nil {
			return texts, nil
		}
		lastErr = err
		if !asr.IsRetryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// Summarize generates and stores a summary for a meeting. With no
// summarizer configured the extractive fallback runs locally and the
// summary row is flagged accordingly.
func (o *Orchestrator) Summarize(ctx context.Context, meetingID int64, templateName string) (db.Summary, error) {
	segments, err := o.store.ListSegments(ctx, meetingID)
	if err != nil {
		return db.Summary{}, err
	}
	if len(segments) == 0 {
		return db.Summary{}, fmt.Errorf("meeting %d: %w", meetingID, export.ErrNoSegments)
	}
	text := summarize.SegmentsText(segments)

	if o.summarizer != nil {
		summary, err := o.summarizer.Summarize(ctx, text, templateName)
		if err != nil {
			return db.Summary{}, fmt.Errorf("summarize meeting %d: %w", meetingID, err)
		}
		return o.store.AppendSummary(ctx, meetingID, templateName, o.cfg.SummaryModel, summary, false)
	}

	summary, err := summarize.Extractive{}.Summarize(ctx, text, templateName)
	if err != nil {
		return db.Summary{}, fmt.Errorf("summarize meeting %d: %w", meetingID, err)
	}
	return o.store.AppendSummary(ctx, meetingID, templateName, "", summary, true)
}

// Export renders a meeting to a format, writes the artifact under the
// exports directory, and records it.
func (o *Orchestrator) Export(ctx context.Context, meetingID int64, format string, opts export.Options) (db.Export, error) {
	meeting, err := o.store.GetMeeting(ctx, meetingID)
	if err != nil {
		return db.Export{}, err
	}
	segments, err := o.store.ListSegments(ctx, meetingID)
	if err != nil {
		return db.Export{}, err
	}
	summaries, err := o.store.ListSummaries(ctx, meetingID)
	if err != nil {
		return db.Export{}, err
	}

	doc := export.Document{Meeting: meeting, Segments: segments, Summaries: summaries}
	data, err := export.Render(doc, format, opts)
	if err != nil {
		return db.Export{}, err
	}

	tag := export.Normalize(format)
	dir := filepath.Join(o.cfg.ExportsDir, fmt.Sprintf("meeting_%d", meetingID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return db.Export{}, fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, "transcript."+tag)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return db.Export{}, fmt.Errorf("write export: %w", err)
	}

	return o.store.RecordExport(ctx, meetingID, tag, path)
}
