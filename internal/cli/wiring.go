package cli

import (
	"fmt"
	"path/filepath"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/archive"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/config"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/db"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/mcp"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/pipeline"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/usage"
)

// loadConfig loads .env then the effective configuration.
func loadConfig() (*config.Config, error) {
	config.LoadDotEnv()
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// app bundles the wired components a command needs. Commands that serve
// both the runner and a read path (web UI) must share these instances so
// the ledger's mutex actually guards concurrent access.
type app struct {
	runner  *pipeline.Runner
	store   *pipeline.Store
	ledger  *usage.Ledger
	cleanup func()
}

// newStore opens the run record store under the configured state dir.
func newStore(cfg *config.Config) *pipeline.Store {
	return pipeline.NewStore(filepath.Join(cfg.Paths.StateDir, "runs"))
}

// buildApp wires a fully configured pipeline runner along with the store
// and ledger it writes to. The cleanup func closes the event database.
func buildApp(cfg *config.Config) *app {
	dialer := mcp.NewDialer(cfg.ServerSpecs(), cfg.ToolTimeout())
	packager := archive.NewPackager(cfg.Paths.OutputDir)
	ledger := usage.NewLedger(cfg.Paths.UsageFile)
	store := newStore(cfg)

	runner := pipeline.NewRunner(dialer, packager, ledger)
	runner.SetStore(store)

	cleanup := func() {}
	database, err := db.Open(cfg.Paths.EventDB)
	if err == nil {
		if merr := database.Migrate(); merr == nil {
			runner.SetEventLogger(database)
			cleanup = func() { database.Close() }
		} else {
			database.Close()
		}
	}
	// Event logging is best effort; a broken database never blocks a run.

	return &app{runner: runner, store: store, ledger: ledger, cleanup: cleanup}
}
