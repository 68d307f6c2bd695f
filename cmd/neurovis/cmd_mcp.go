package main

import (
	"fmt"

	"github.com/nvandessel/neurovis/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server <input>",
		Short: "Serve dataset queries over MCP (stdio)",
		Long: `Load the dataset under <input> and answer Model Context Protocol
tool calls on stdin/stdout:

  neurovis_topology   groups, types, counts, colors, positions
  neurovis_timeline   the ordered list of frame times
  neurovis_frame      encode one frame by index or time

The server is read-only and never renders.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			auditDir, _ := cmd.Flags().GetString("audit-dir")

			server, err := mcp.NewServer(&mcp.Config{
				Name:     "neurovis",
				Version:  version,
				Root:     args[0],
				Params:   encoderParams(cfg),
				AuditDir: auditDir,
				Logger:   newLogger(cmd, cfg),
			})
			if err != nil {
				return fmt.Errorf("failed to start MCP server: %w", err)
			}

			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().String("audit-dir", "", "Directory for mcp-audit.jsonl (disabled when empty)")

	return cmd
}
