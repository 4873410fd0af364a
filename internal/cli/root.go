// Package cli wires the cobra command tree.
package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"scribe/config"
	"scribe/internal/asr"
	"scribe/internal/audio"
	"scribe/internal/db"
	"scribe/internal/pipeline"
	"scribe/internal/summarize"
	"scribe/internal/transcript"
	"scribe/internal/version"
)

type Dependencies struct {
	Store  *db.Store
	Config *config.Config
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scribe",
		Short: "Offline meeting transcription, search, and summaries",
		Long:  "Transcribe meeting recordings locally, keep them searchable in SQLite, and generate summaries without sending audio anywhere.",
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewTranscribeCmd(deps))
	rootCmd.AddCommand(NewSummarizeCmd(deps))
	rootCmd.AddCommand(NewSearchCmd(deps))
	rootCmd.AddCommand(NewExportCmd(deps))
	rootCmd.AddCommand(NewListCmd(deps))
	rootCmd.AddCommand(NewShowCmd(deps))
	rootCmd.AddCommand(NewDeleteCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))
	rootCmd.AddCommand(NewTUICmd(deps))
	rootCmd.AddCommand(NewMCPCmd(deps))

	return rootCmd
}

// newOrchestrator assembles the pipeline from configuration. The ASR
// backend is built here once per command invocation and handed in
// explicitly.
func newOrchestrator(deps *Dependencies) *pipeline.Orchestrator {
	cfg := deps.Config

	var backend asr.Backend = &asr.ExecBackend{
		Command: cfg.ASRCommand,
		Model:   cfg.ASRModel,
		Device:  cfg.Device,
		TempDir: cfg.TempDir,
	}
	if cfg.ASRFallback != "" {
		backend = &asr.FallbackBackend{
			Primary: backend,
			Secondary: &asr.ExecBackend{
				Command: cfg.ASRFallback,
				Model:   cfg.ASRModel,
				Device:  "cpu",
				TempDir: cfg.TempDir,
			},
		}
	}

	var summarizer summarize.Summarizer
	if cfg.SummarizerCommand != "" {
		summarizer = &summarize.ExecSummarizer{
			Command:    cfg.SummarizerCommand,
			Model:      cfg.SummaryModel,
			PromptsDir: cfg.PromptsDir,
		}
	}

	pcfg := pipeline.Config{
		Chunking: audio.ChunkConfig{
			MaxChunkSeconds: cfg.MaxChunkSeconds,
			MinSilenceGap:   cfg.MinSilenceGap,
			OverlapSeconds:  cfg.OverlapSeconds,
		},
		Reconcile: transcript.Config{
			OverlapSeconds:  cfg.OverlapSeconds,
			DedupSimilarity: transcript.DefaultConfig().DedupSimilarity,
		},
		Workers:      cfg.Workers,
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   500 * time.Millisecond,
		Language:     cfg.Language,
		ModelName:    "faster-whisper:" + cfg.ASRModel,
		SummaryModel: cfg.SummaryModel,
		ExportsDir:   cfg.ExportsDir,
	}

	return pipeline.New(
		deps.Store,
		audio.NewFFmpegDecoder(""),
		audio.NewEnergyDetector(),
		backend,
		summarizer,
		pcfg,
	)
}

func parseMeetingID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid meeting id %q", arg)
	}
	return id, nil
}
