package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesOverrides(t *testing.T) {
	yaml := `
servers:
  codegen:
    command: /usr/local/bin/codegen-server
    args: ["--verbose"]
pipeline:
  tool_timeout: 45s
model:
  name: gemini-2.5-pro
  temperature: 0.2
paths:
  state_dir: /tmp/mcpgen-test
`
	path := filepath.Join(t.TempDir(), "mcpgen.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Servers[ServerCodegen].Command; got != "/usr/local/bin/codegen-server" {
		t.Errorf("codegen command = %q", got)
	}
	if got := cfg.Servers[ServerCodegen].Args; len(got) != 1 || got[0] != "--verbose" {
		t.Errorf("codegen args = %v", got)
	}
	if cfg.ToolTimeout() != 45*time.Second {
		t.Errorf("ToolTimeout = %v, want 45s", cfg.ToolTimeout())
	}
	if cfg.Model.Name != "gemini-2.5-pro" {
		t.Errorf("Model.Name = %q", cfg.Model.Name)
	}
	if cfg.Model.Temperature != 0.2 {
		t.Errorf("Model.Temperature = %v", cfg.Model.Temperature)
	}
	if cfg.Paths.StateDir != "/tmp/mcpgen-test" {
		t.Errorf("StateDir = %q", cfg.Paths.StateDir)
	}
	// Derived paths follow the overridden state dir.
	if want := filepath.Join("/tmp/mcpgen-test", "model_usage.json"); cfg.Paths.UsageFile != want {
		t.Errorf("UsageFile = %q, want %q", cfg.Paths.UsageFile, want)
	}
}

func TestDefaultFillsAllServers(t *testing.T) {
	cfg := Default()

	for _, name := range []string{ServerRefinement, ServerCodegen, ServerTestgen} {
		s, ok := cfg.Servers[name]
		if !ok {
			t.Errorf("server %q missing from defaults", name)
			continue
		}
		if s.Command == "" {
			t.Errorf("server %q has empty command", name)
		}
	}
	if cfg.Model.Name != "gemini-2.5-flash" {
		t.Errorf("default model = %q", cfg.Model.Name)
	}
	if cfg.Model.Temperature != 0 {
		t.Errorf("default temperature = %v, want 0", cfg.Model.Temperature)
	}
	if cfg.ToolTimeout() != DefaultToolTimeout {
		t.Errorf("default ToolTimeout = %v", cfg.ToolTimeout())
	}
}

func TestToolTimeoutBadValue(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.ToolTimeout = "not-a-duration"
	if cfg.ToolTimeout() != DefaultToolTimeout {
		t.Errorf("bad timeout should fall back to default, got %v", cfg.ToolTimeout())
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown server", "servers:\n  linter:\n    command: lint-server\n"},
		{"bad timeout", "pipeline:\n  tool_timeout: fast\n"},
		{"bad temperature", "model:\n  temperature: 9.5\n"},
	}
	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), "mcpgen.yaml")
		if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
			t.Fatalf("%s: write config: %v", tc.name, err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load succeeded, want validation error", tc.name)
		}
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Errorf("default config invalid: %v", errs)
	}
}

func TestServerSpecs(t *testing.T) {
	cfg := Default()
	cfg.Servers["codegen"] = Server{Command: "cg", Args: []string{"-x"}, Env: []string{"A=1"}}

	specs := cfg.ServerSpecs()
	if len(specs) != len(cfg.Servers) {
		t.Fatalf("got %d specs, want %d", len(specs), len(cfg.Servers))
	}
	cg := specs["codegen"]
	if cg.Command != "cg" || len(cg.Args) != 1 || len(cg.Env) != 1 {
		t.Errorf("codegen spec = %+v", cg)
	}
}
