package config

// Well-known tool server names. Each maps to a standalone binary
// spoken to over stdio.
const (
	ServerRefinement = "refinement"
	ServerCodegen    = "codegen"
	ServerTestgen    = "testgen"
)

// Config is the top-level configuration parsed from mcpgen YAML.
type Config struct {
	Servers  map[string]Server `yaml:"servers"`
	Pipeline Pipeline          `yaml:"pipeline"`
	Model    Model             `yaml:"model"`
	Paths    Paths             `yaml:"paths"`
}

// Server describes how to launch one tool server process.
type Server struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Env     []string `yaml:"env"`
}

// Pipeline holds orchestration knobs.
type Pipeline struct {
	ToolTimeout string `yaml:"tool_timeout"` // per-roundtrip transport timeout, e.g. "120s"
}

// Model configures the LLM the tool servers call.
type Model struct {
	Name        string  `yaml:"name"`
	Temperature float64 `yaml:"temperature"`
	BaseURL     string  `yaml:"base_url"`
}

// Paths locates the shared on-disk state. UsageFile is the ledger
// every LLM-calling process rewrites; StateDir holds run history.
type Paths struct {
	StateDir  string `yaml:"state_dir"`
	OutputDir string `yaml:"output_dir"`
	UsageFile string `yaml:"usage_file"`
	EventDB   string `yaml:"event_db"`
}
