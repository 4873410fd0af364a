package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/output"
)

func NewDeleteCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <meeting-id>",
		Short: "Delete a meeting and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMeetingID(args[0])
			if err != nil {
				return err
			}
			if err := deps.Store.DeleteMeeting(cmd.Context(), id); err != nil {
				return err
			}
			output.NewFormatter(os.Stdout).Info(fmt.Sprintf("Meeting %d deleted", id))
			return nil
		},
	}
}
