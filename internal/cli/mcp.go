package cli

import (
	"github.com/spf13/cobra"

	"scribe/internal/mcpserver"
)

func NewMCPCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the transcript store to MCP clients over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.ServeStdio(deps.Store)
		},
	}
}
