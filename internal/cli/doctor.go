package cli

import (
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"scribe/internal/output"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(os.Stdout)
			cfg := deps.Config
			ok := true

			if _, err := exec.LookPath("ffmpeg"); err != nil {
				f.DoctorCheck("ffmpeg", false, "not found on PATH")
				ok = false
			} else {
				f.DoctorCheck("ffmpeg", true, "installed")
			}

			if _, err := exec.LookPath(cfg.ASRCommand); err != nil {
				f.DoctorCheck("ASR helper", false, cfg.ASRCommand+" not found on PATH")
				ok = false
			} else {
				f.DoctorCheck("ASR helper", true, cfg.ASRCommand)
			}

			if cfg.SummarizerCommand == "" {
				f.DoctorCheck("Summarizer", true, "not configured, extractive fallback will be used")
			} else if _, err := exec.LookPath(cfg.SummarizerCommand); err != nil {
				f.DoctorCheck("Summarizer", false, cfg.SummarizerCommand+" not found on PATH")
				ok = false
			} else {
				f.DoctorCheck("Summarizer", true, cfg.SummarizerCommand)
			}

			if _, err := deps.Store.Search(cmd.Context(), "doctor", 0, 1); err != nil {
				f.DoctorCheck("Full-text search", false, err.Error())
				ok = false
			} else {
				f.DoctorCheck("Full-text search", true, "FTS5 available")
			}

			if err := cfg.EnsureDirs(); err != nil {
				f.DoctorCheck("Data directory", false, err.Error())
				ok = false
			} else {
				f.DoctorCheck("Data directory", true, cfg.DataDir)
			}

			if ok {
				f.Info("All prerequisites met")
			} else {
				f.Error("Some prerequisites are missing")
			}
			return nil
		},
	}
}
