package cli

import (
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/output"
)

func NewTranscribeCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe a recording and store the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if model, _ := cmd.Flags().GetString("model"); model != "" {
				deps.Config.ASRModel = model
			}
			if language, _ := cmd.Flags().GetString("language"); language != "" {
				deps.Config.Language = language
			}
			if device, _ := cmd.Flags().GetString("device"); device != "" {
				deps.Config.Device = device
			}

			f := output.NewFormatter(os.Stdout)
			f.Transcribing(args[0])

			res, err := newOrchestrator(deps).TranscribeFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f.TranscribeDone(res.Meeting.ID, res.SegmentCount, res.ChunkCount)
			f.ForcedCuts(res.ForcedCuts)
			return nil
		},
	}

	cmd.Flags().String("model", "", "ASR model (small|medium|large)")
	cmd.Flags().String("language", "", "language code, or auto")
	cmd.Flags().String("device", "", "compute device (auto|cpu|cuda)")
	return cmd
}
