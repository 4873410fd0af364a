package cli

import (
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/export"
	"scribe/internal/output"
)

func NewExportCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <meeting-id>",
		Short: "Render a meeting to markdown, json, or srt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMeetingID(args[0])
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")

			opts := export.Options{SRT: export.SRTOptions{
				MaxCueSeconds: deps.Config.SRTMaxCueSeconds,
				MaxLineChars:  deps.Config.SRTMaxLineChars,
			}}
			exp, err := newOrchestrator(deps).Export(cmd.Context(), id, format, opts)
			if err != nil {
				return err
			}
			output.NewFormatter(os.Stdout).ExportDone(exp.Path)
			return nil
		},
	}

	cmd.Flags().String("format", "md", "output format (md|json|srt)")
	return cmd
}
