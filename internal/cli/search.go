package cli

import (
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/output"
)

func NewSearchCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across stored transcripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID, _ := cmd.Flags().GetInt64("meeting")
			limit, _ := cmd.Flags().GetInt("limit")

			hits, err := deps.Store.Search(cmd.Context(), args[0], meetingID, limit)
			if err != nil {
				return err
			}

			f := output.NewFormatter(os.Stdout)
			if len(hits) == 0 {
				f.Info("No matches")
				return nil
			}
			for _, hit := range hits {
				f.SearchHit(hit)
			}
			return nil
		},
	}

	cmd.Flags().Int64("meeting", 0, "restrict to one meeting id")
	cmd.Flags().Int("limit", 25, "maximum results")
	return cmd
}
