package config

import (
	"fmt"
	"time"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// knownServers is the set of server names the pipeline binds stages to.
var knownServers = map[string]bool{
	ServerRefinement: true,
	ServerCodegen:    true,
	ServerTestgen:    true,
}

// Validate checks a Config for structural and semantic errors. It
// returns a slice of all validation errors found (empty if valid).
// Call after defaults are applied, so only explicit misconfiguration
// is reported.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	for name, srv := range cfg.Servers {
		if !knownServers[name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("servers.%s", name),
				Message: "unknown server name (expected refinement, codegen, or testgen)",
			})
		}
		if srv.Command == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("servers.%s.command", name),
				Message: "is required",
			})
		}
	}

	if cfg.Pipeline.ToolTimeout != "" {
		if d, err := time.ParseDuration(cfg.Pipeline.ToolTimeout); err != nil {
			errs = append(errs, ValidationError{
				Field:   "pipeline.tool_timeout",
				Message: fmt.Sprintf("invalid duration %q", cfg.Pipeline.ToolTimeout),
			})
		} else if d <= 0 {
			errs = append(errs, ValidationError{
				Field:   "pipeline.tool_timeout",
				Message: "must be positive",
			})
		}
	}

	if cfg.Model.Temperature < 0 || cfg.Model.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "model.temperature",
			Message: fmt.Sprintf("%v is outside the supported range [0, 2]", cfg.Model.Temperature),
		})
	}

	return errs
}
