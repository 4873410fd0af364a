package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/output"
	"scribe/internal/summarize"
)

func NewSummarizeCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <meeting-id>",
		Short: "Generate and store a summary for a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMeetingID(args[0])
			if err != nil {
				return err
			}
			template, _ := cmd.Flags().GetString("template")

			f := output.NewFormatter(os.Stdout)
			f.Summarizing(template)

			sum, err := newOrchestrator(deps).Summarize(cmd.Context(), id, template)
			if err != nil {
				return err
			}
			f.SummaryDone(sum.Fallback)
			f.Info(sum.Text)
			return nil
		},
	}

	cmd.Flags().String("template", "general", "summary template ("+strings.Join(summarize.Templates(), "|")+")")
	return cmd
}
