package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// sampleDescription exercises the full pipeline without requiring the
// user to write a description first.
const sampleDescription = "Calorie Burner is a software application that allows users to track and " +
	"monitor the number of calories burned during physical activities and " +
	"workouts. Users can select from a list of common activities or input " +
	"custom activities to calculate the calories burned. The app provides " +
	"real-time tracking of calories burned and displays an overview of the user."

var generateCmd = &cobra.Command{
	Use:   "generate [description]",
	Short: "Run the full generation pipeline for an application description",
	Long: `Run the five-stage pipeline: plan, generate code, generate tests,
review, and (if the review flags issues) refine. The result is a ZIP
archive containing app.py, test_app.py, and run instructions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sample, _ := cmd.Flags().GetBool("sample")

		description := strings.Join(args, " ")
		if sample {
			description = sampleDescription
		}
		if strings.TrimSpace(description) == "" {
			return fmt.Errorf("provide an application description or use --sample")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a := buildApp(cfg)
		defer a.cleanup()
		a.runner.SetProgress(cmd.OutOrStdout())

		result, err := a.runner.Run(cmd.Context(), description)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nArchive: %s\n", result.ArchivePath)
		fmt.Fprintf(out, "Run ID:  %s\n", result.RunID)
		if result.State.Refined {
			fmt.Fprintln(out, "Code was refined after review.")
		}
		fmt.Fprintf(out, "Model API calls so far: %d\n", result.Usage.TotalCalls())
		return nil
	},
}

func init() {
	generateCmd.Flags().Bool("sample", false, "Use a built-in sample description")
}
