// Package pipeline runs the five-stage generation workflow: plan,
// generate, test generation, review, and conditional refinement.
package pipeline

import (
	"context"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/usage"
)

// AcceptanceMarker is the phrase the reviewer includes when the
// generated code is acceptable as-is. Its absence triggers the
// refinement stage.
const AcceptanceMarker = "OK_TO_USE"

// Stage names as they appear in progress output and event logs.
const (
	StagePlan     = "plan"
	StageGenerate = "generate"
	StageTestgen  = "testgen"
	StageReview   = "review"
	StageRefine   = "refine"
	StagePackage  = "package"
)

// State carries the intermediate artifacts of a run.
type State struct {
	Description    string `json:"description"`
	Plan           string `json:"plan"`
	AppCode        string `json:"app_code"`
	TestsCode      string `json:"tests_code"`
	ReviewFeedback string `json:"review_feedback"`
	Refined        bool   `json:"refined"`
}

// Result is the outcome of a completed run.
type Result struct {
	RunID       string         `json:"run_id"`
	ArchivePath string         `json:"archive_path"`
	Usage       usage.Snapshot `json:"usage"`
	State       State          `json:"state"`
}

// ToolCaller invokes a named tool on a named server.
type ToolCaller interface {
	Invoke(ctx context.Context, server, tool string, args map[string]string) (string, error)
}

// Packager bundles the final artifacts into an archive.
type Packager interface {
	Package(appCode, testsCode, description string) (string, error)
}

// EventLogger records pipeline events. Implementations must tolerate
// being called with an empty stage or detail.
type EventLogger interface {
	LogPipelineEvent(runID, event, stage, detail string) error
}

// nopLogger discards events.
type nopLogger struct{}

func (nopLogger) LogPipelineEvent(runID, event, stage, detail string) error { return nil }
