package cli

import (
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	Long: `Start a browser UI on localhost with a form that runs the generation
pipeline, download links for produced archives, and the model usage
report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a := buildApp(cfg)
		defer a.cleanup()

		return web.NewServer(a.runner, a.store, a.ledger, cfg.Paths.OutputDir, port).Start()
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
}
