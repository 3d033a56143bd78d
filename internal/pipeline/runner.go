package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/config"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/usage"
)

// Runner drives a generation run across the three tool servers.
type Runner struct {
	tools    ToolCaller
	packager Packager
	ledger   *usage.Ledger
	events   EventLogger
	store    *Store
	progress io.Writer
}

// NewRunner creates a Runner. The event logger and run store are
// optional; configure them with SetEventLogger and SetStore.
func NewRunner(tools ToolCaller, packager Packager, ledger *usage.Ledger) *Runner {
	return &Runner{
		tools:    tools,
		packager: packager,
		ledger:   ledger,
		events:   nopLogger{},
		progress: io.Discard,
	}
}

// SetProgress directs human-readable stage updates to w.
func (r *Runner) SetProgress(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	r.progress = w
}

// SetEventLogger records stage events to the given logger.
func (r *Runner) SetEventLogger(ev EventLogger) {
	if ev == nil {
		ev = nopLogger{}
	}
	r.events = ev
}

// SetStore persists a record of each completed run.
func (r *Runner) SetStore(s *Store) {
	r.store = s
}

func (r *Runner) logf(format string, args ...any) {
	fmt.Fprintf(r.progress, "→ "+format+"\n", args...)
}

// callTool runs one stage's tool call, recording start and completion
// events. Errors abort the run; the caller packages nothing.
func (r *Runner) callTool(ctx context.Context, runID, stage, server, tool string, args map[string]string) (string, error) {
	_ = r.events.LogPipelineEvent(runID, "stage_started", stage, server+"."+tool)
	out, err := r.tools.Invoke(ctx, server, tool, args)
	if err != nil {
		_ = r.events.LogPipelineEvent(runID, "stage_failed", stage, err.Error())
		return "", fmt.Errorf("%s stage: %w", stage, err)
	}
	_ = r.events.LogPipelineEvent(runID, "stage_completed", stage, "")
	return out, nil
}

// Run executes the full pipeline for a description and returns the
// archive path, usage snapshot, and intermediate state.
func (r *Runner) Run(ctx context.Context, description string) (*Result, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description must not be empty")
	}

	runID := uuid.NewString()
	state := State{Description: description}
	_ = r.events.LogPipelineEvent(runID, "run_started", "", "")

	r.logf("generating implementation plan")
	plan, err := r.callTool(ctx, runID, StagePlan, config.ServerRefinement, "generate_plan",
		map[string]string{"description": description})
	if err != nil {
		return nil, err
	}
	state.Plan = plan

	r.logf("generating application code")
	appCode, err := r.callTool(ctx, runID, StageGenerate, config.ServerCodegen, "generate_app_code",
		map[string]string{"description": description, "plan": plan})
	if err != nil {
		return nil, err
	}
	state.AppCode = appCode

	r.logf("generating tests")
	testsCode, err := r.callTool(ctx, runID, StageTestgen, config.ServerTestgen, "generate_tests",
		map[string]string{"app_code": appCode, "description": description})
	if err != nil {
		return nil, err
	}
	state.TestsCode = testsCode

	r.logf("reviewing generated code")
	feedback, err := r.callTool(ctx, runID, StageReview, config.ServerRefinement, "review_code",
		map[string]string{"app_code": appCode, "tests": testsCode})
	if err != nil {
		return nil, err
	}
	state.ReviewFeedback = feedback

	if !strings.Contains(feedback, AcceptanceMarker) {
		r.logf("review flagged issues, refining code")
		refined, err := r.callTool(ctx, runID, StageRefine, config.ServerRefinement, "refine_code",
			map[string]string{"app_code": appCode, "feedback": feedback})
		if err != nil {
			return nil, err
		}
		// Keep the original code if refinement produced nothing usable.
		if strings.TrimSpace(refined) != "" {
			state.AppCode = refined
			state.Refined = true
		}
	}

	r.logf("packaging artifacts")
	archivePath, err := r.packager.Package(state.AppCode, state.TestsCode, description)
	if err != nil {
		_ = r.events.LogPipelineEvent(runID, "stage_failed", StagePackage, err.Error())
		return nil, fmt.Errorf("package stage: %w", err)
	}
	_ = r.events.LogPipelineEvent(runID, "stage_completed", StagePackage, archivePath)

	snapshot := usage.Snapshot{}
	if r.ledger != nil {
		snapshot, err = r.ledger.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("read usage: %w", err)
		}
	}

	result := &Result{
		RunID:       runID,
		ArchivePath: archivePath,
		Usage:       snapshot,
		State:       state,
	}
	if r.store != nil {
		if err := r.store.Save(result); err != nil {
			return nil, fmt.Errorf("save run record: %w", err)
		}
	}
	_ = r.events.LogPipelineEvent(runID, "run_completed", "", archivePath)
	r.logf("done: %s", archivePath)
	return result, nil
}
