// The codegen server exposes the generate_app_code tool over stdio.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/agents"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/config"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/llm"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/mcpserver"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/usage"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var opts []llm.Option
	if cfg.Model.BaseURL != "" {
		opts = append(opts, llm.WithBaseURL(cfg.Model.BaseURL))
	}
	gen := llm.NewClient(cfg.Model.Name, cfg.Model.Temperature, opts...)
	ledger := usage.NewLedger(cfg.Paths.UsageFile)

	srv := mcpserver.New("CodeGenerator", agents.CodegenTools(gen, ledger)...)
	if err := srv.ServeStdio(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
