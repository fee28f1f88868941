package cmd

import (
	"github.com/huangsam/riskboard/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Riskboard MCP server",
	Long:  `Launch an MCP server that lets AI agents build dashboards, sort bugs and list buckets via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so nothing else may print to stdout.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, recordSource)
	},
}
