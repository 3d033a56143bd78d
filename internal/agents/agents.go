// Package agents defines the tools served by the planning, code
// generation, and test generation servers.
package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/llm"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/mcpserver"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/usage"
)

// Agent names used for usage attribution.
const (
	PlanAgent       = "PlanAgent"
	CodeGenerator   = "CodeGenerator"
	TestGenerator   = "TestGenerator"
	ReviewAgent     = "ReviewAgent"
	RefinementAgent = "RefinementAgent"
)

func textSchema(required []string, optional ...string) map[string]any {
	props := map[string]any{}
	for _, name := range required {
		props[name] = map[string]any{"type": "string"}
	}
	for _, name := range optional {
		props[name] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func tracked(agent string, gen llm.Generator, ledger *usage.Ledger) llm.Generator {
	if ledger == nil {
		return gen
	}
	return llm.NewTrackingClient(agent, gen, ledger)
}

// RefinementTools returns the plan, review, and refine tools.
func RefinementTools(gen llm.Generator, ledger *usage.Ledger) []mcpserver.Tool {
	planner := tracked(PlanAgent, gen, ledger)
	reviewer := tracked(ReviewAgent, gen, ledger)
	refiner := tracked(RefinementAgent, gen, ledger)

	return []mcpserver.Tool{
		{
			Name:        "generate_plan",
			Description: "Generate a high-level implementation plan for the application.",
			InputSchema: textSchema([]string{"description"}),
			Handler: func(ctx context.Context, args map[string]string) string {
				description, err := mcpserver.RequiredArg(args, "description")
				if err != nil {
					return llm.ErrorText(err)
				}
				prompt := fmt.Sprintf("%s\n\nApplication Description:\n%s\n",
					planInstructions, strings.TrimSpace(description))
				plan, err := planner.Generate(ctx, prompt)
				if err != nil {
					return llm.ErrorText(err)
				}
				return plan
			},
		},
		{
			Name:        "review_code",
			Description: "Review generated code and tests; includes OK_TO_USE when acceptable.",
			InputSchema: textSchema([]string{"app_code", "tests"}),
			Handler: func(ctx context.Context, args map[string]string) string {
				appCode, err := mcpserver.RequiredArg(args, "app_code")
				if err != nil {
					return llm.ErrorText(err)
				}
				tests, err := mcpserver.RequiredArg(args, "tests")
				if err != nil {
					return llm.ErrorText(err)
				}
				prompt := fmt.Sprintf("%s\n\nAPP CODE:\n%s\n\nTEST CODE:\n%s\n",
					reviewInstructions, appCode, tests)
				feedback, err := reviewer.Generate(ctx, prompt)
				if err != nil {
					return llm.ErrorText(err)
				}
				return feedback
			},
		},
		{
			Name:        "refine_code",
			Description: "Refine application code based on review feedback.",
			InputSchema: textSchema([]string{"app_code", "feedback"}),
			Handler: func(ctx context.Context, args map[string]string) string {
				appCode, err := mcpserver.RequiredArg(args, "app_code")
				if err != nil {
					return llm.ErrorText(err)
				}
				feedback, err := mcpserver.RequiredArg(args, "feedback")
				if err != nil {
					return llm.ErrorText(err)
				}
				prompt := fmt.Sprintf("%s\n\nCURRENT APP CODE:\n%s\n\nFEEDBACK:\n%s\n",
					refineInstructions, appCode, feedback)
				refined, err := refiner.Generate(ctx, prompt)
				if err != nil {
					return llm.ErrorText(err)
				}
				return refined
			},
		},
	}
}

// CodegenTools returns the application code generation tool.
func CodegenTools(gen llm.Generator, ledger *usage.Ledger) []mcpserver.Tool {
	coder := tracked(CodeGenerator, gen, ledger)

	return []mcpserver.Tool{
		{
			Name:        "generate_app_code",
			Description: "Generate a complete, runnable Python application from a description.",
			InputSchema: textSchema([]string{"description"}, "plan"),
			Handler: func(ctx context.Context, args map[string]string) string {
				description, err := mcpserver.RequiredArg(args, "description")
				if err != nil {
					return llm.ErrorText(err)
				}
				var sb strings.Builder
				sb.WriteString(codegenInstructions)
				sb.WriteString("\n\nApplication Description:\n")
				sb.WriteString(strings.TrimSpace(description))
				if plan := args["plan"]; plan != "" {
					sb.WriteString("\n\nHigh-Level Plan:\n")
					sb.WriteString(strings.TrimSpace(plan))
				}
				code, err := coder.Generate(ctx, sb.String())
				if err != nil {
					return llm.ErrorText(err)
				}
				return code
			},
		},
	}
}

// TestgenTools returns the test suite generation tool.
func TestgenTools(gen llm.Generator, ledger *usage.Ledger) []mcpserver.Tool {
	tester := tracked(TestGenerator, gen, ledger)

	return []mcpserver.Tool{
		{
			Name:        "generate_tests",
			Description: "Generate a pytest test suite for the application code.",
			InputSchema: textSchema([]string{"app_code", "description"}),
			Handler: func(ctx context.Context, args map[string]string) string {
				appCode, err := mcpserver.RequiredArg(args, "app_code")
				if err != nil {
					return llm.ErrorText(err)
				}
				description, err := mcpserver.RequiredArg(args, "description")
				if err != nil {
					return llm.ErrorText(err)
				}
				prompt := fmt.Sprintf("%s\n\nApplication Description:\n%s\n\nApplication Code:\n%s\n",
					testgenInstructions, strings.TrimSpace(description), appCode)
				tests, err := tester.Generate(ctx, prompt)
				if err != nil {
					return llm.ErrorText(err)
				}
				return tests
			},
		},
	}
}
