package cli

import (
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/output"
)

func NewListCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(os.Stdout)

			meetings, err := deps.Store.ListMeetings(cmd.Context())
			if err != nil {
				return err
			}
			if len(meetings) == 0 {
				f.Info("No meetings stored yet")
				return nil
			}

			f.MeetingListHeader()
			for _, m := range meetings {
				f.MeetingListItem(m)
			}
			return nil
		},
	}
}
