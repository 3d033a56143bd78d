package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List completed generation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		records, err := newStore(cfg).List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CREATED\tRUN ID\tREFINED\tDESCRIPTION")
		for _, rec := range records {
			refined := "no"
			if rec.Refined {
				refined = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				rec.CreatedAt, rec.RunID, refined, truncate(rec.Description, 60))
		}
		return w.Flush()
	},
}

// truncate shortens s to at most max runes, ending with "..." when cut.
// Counting runes keeps multi-byte characters intact.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
