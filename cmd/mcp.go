package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/leadpulse/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [input-file]",
	Short: "Start the leadpulse MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents query dashboards via standard tools.

The optional input file becomes the default for every tool call.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
