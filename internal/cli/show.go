package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show <meeting-id>",
		Short: "Print a meeting's transcript and latest summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMeetingID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			meeting, err := deps.Store.GetMeeting(ctx, id)
			if err != nil {
				return err
			}
			segments, err := deps.Store.ListSegments(ctx, id)
			if err != nil {
				return err
			}
			latest, err := deps.Store.LatestSummary(ctx, id)
			if err != nil {
				return err
			}

			w := os.Stdout
			fmt.Fprintf(w, "Meeting %d\n", meeting.ID)
			fmt.Fprintf(w, "  created:  %s\n", meeting.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "  source:   %s\n", meeting.SourcePath)
			fmt.Fprintf(w, "  language: %s\n", meeting.Language)
			fmt.Fprintf(w, "  model:    %s\n", meeting.ModelName)
			fmt.Fprintf(w, "  duration: %.1fs\n\n", meeting.DurationSeconds)

			if latest != nil {
				fmt.Fprintf(w, "Summary (%s):\n%s\n\n", latest.TemplateName, latest.Text)
			}

			for _, seg := range segments {
				fmt.Fprintf(w, "[%7.2f - %7.2f] %s\n", seg.Start, seg.End, seg.Text)
			}
			return nil
		},
	}
}
