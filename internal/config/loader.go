package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/mcp"
)

// DefaultToolTimeout applies when pipeline.tool_timeout is unset.
const DefaultToolTimeout = 120 * time.Second

// Load reads and parses a configuration from the given YAML file path,
// then fills in defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config %s: %v", path, errs[0])
	}
	return &cfg, nil
}

// LoadDefault searches standard locations and loads the first config
// found. Search order: ./mcpgen.yaml, ~/.mcpgen/config.yaml. When no
// file exists, the built-in defaults are returned so the tool works
// out of the box.
func LoadDefault() (*Config, error) {
	candidates := []string{"mcpgen.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".mcpgen", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return Default(), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadDotEnv loads a .env file into the environment if one exists.
// Missing files are not an error; existing environment variables win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// applyDefaults fills every unset field with its built-in value.
func applyDefaults(cfg *Config) {
	if cfg.Servers == nil {
		cfg.Servers = make(map[string]Server)
	}
	defaults := map[string]string{
		ServerRefinement: "refinement-server",
		ServerCodegen:    "codegen-server",
		ServerTestgen:    "testgen-server",
	}
	for name, command := range defaults {
		if _, ok := cfg.Servers[name]; !ok {
			cfg.Servers[name] = Server{Command: command}
		}
	}

	if cfg.Pipeline.ToolTimeout == "" {
		cfg.Pipeline.ToolTimeout = DefaultToolTimeout.String()
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = "gemini-2.5-flash"
	}

	stateDir := cfg.Paths.StateDir
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		stateDir = filepath.Join(home, ".mcpgen")
		cfg.Paths.StateDir = stateDir
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = filepath.Join(stateDir, "generated_output")
	}
	if cfg.Paths.UsageFile == "" {
		cfg.Paths.UsageFile = filepath.Join(stateDir, "model_usage.json")
	}
	if cfg.Paths.EventDB == "" {
		cfg.Paths.EventDB = filepath.Join(stateDir, "mcpgen.db")
	}
}

// ToolTimeout parses the configured transport timeout, falling back to
// the default on a bad value.
func (c *Config) ToolTimeout() time.Duration {
	d, err := time.ParseDuration(c.Pipeline.ToolTimeout)
	if err != nil || d <= 0 {
		return DefaultToolTimeout
	}
	return d
}

// ServerSpecs converts the server table into launch specs for the
// tool client.
func (c *Config) ServerSpecs() map[string]mcp.ServerSpec {
	specs := make(map[string]mcp.ServerSpec, len(c.Servers))
	for name, s := range c.Servers {
		specs[name] = mcp.ServerSpec{Command: s.Command, Args: s.Args, Env: s.Env}
	}
	return specs
}
