package cli

import (
	"fmt"
	"sort"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/mcp"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools [server]",
	Short: "List the tools exposed by the configured MCP servers",
	Long: `Spawn each configured server, perform the MCP handshake, and print
the tools it advertises. Pass a server name (refinement, codegen,
testgen) to query just one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var names []string
		if len(args) == 1 {
			names = []string{args[0]}
		} else {
			for name := range cfg.Servers {
				names = append(names, name)
			}
			sort.Strings(names)
		}

		dialer := mcp.NewDialer(cfg.ServerSpecs(), cfg.ToolTimeout())
		out := cmd.OutOrStdout()
		for _, name := range names {
			tools, err := dialer.ListTools(cmd.Context(), name)
			if err != nil {
				fmt.Fprintf(out, "%s: %v\n", name, err)
				continue
			}
			fmt.Fprintf(out, "%s:\n", name)
			for _, tool := range tools {
				fmt.Fprintf(out, "  %-20s %s\n", tool.Name, tool.Description)
			}
		}
		return nil
	},
}
