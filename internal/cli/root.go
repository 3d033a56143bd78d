package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "mcpgen",
	Short: "mcpgen — an MCP-based code generation pipeline",
	Long: `mcpgen turns a plain-English application description into a packaged
Python app. It runs a five-stage pipeline (plan, generate, test
generation, review, refine) where each stage is a tool call against a
dedicated MCP server spawned over stdio.

State lives in ~/.mcpgen/ (SQLite for events, JSON for run history and
the model usage ledger); generated archives land in
~/.mcpgen/generated_output by default. See mcpgen.yaml to override.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dbCmd)
}
