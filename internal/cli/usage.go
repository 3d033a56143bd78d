package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/usage"
	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show model usage recorded across all agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		snap, err := usage.NewLedger(cfg.Paths.UsageFile).Snapshot()
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		if len(snap) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No usage recorded.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "AGENT\tMODEL\tCALLS\tTOKENS")
		for _, agent := range snap.Agents() {
			models := snap[agent]
			names := make([]string, 0, len(models))
			for name := range models {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, model := range names {
				c := models[model]
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", agent, model, c.NumAPICalls, c.TotalTokens)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal API calls: %d\n", snap.TotalCalls())
		return nil
	},
}

func init() {
	usageCmd.Flags().Bool("json", false, "Output raw JSON")
}
