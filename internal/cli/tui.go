package cli

import (
	"github.com/spf13/cobra"

	"scribe/internal/tui"
)

func NewTUICmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse meetings in an interactive terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(deps.Store)
		},
	}
}
