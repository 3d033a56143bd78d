package llm

import (
	"context"
	"strings"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/usage"
)

// ErrorMarker prefixes tool responses that report a failure in-band.
const ErrorMarker = "ERROR: "

// ErrorText formats an error as in-band marker text.
func ErrorText(err error) string {
	return ErrorMarker + err.Error()
}

// IsErrorText reports whether a tool response carries the failure
// marker.
func IsErrorText(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "ERROR:")
}

// TrackingClient wraps a Generator and records one ledger entry per
// successful call, attributed to a named agent.
type TrackingClient struct {
	agent  string
	gen    Generator
	ledger *usage.Ledger
}

// NewTrackingClient wraps gen so calls are recorded against agent.
func NewTrackingClient(agent string, gen Generator, ledger *usage.Ledger) *TrackingClient {
	return &TrackingClient{agent: agent, gen: gen, ledger: ledger}
}

// Model returns the underlying model name.
func (t *TrackingClient) Model() string {
	return t.gen.Model()
}

// Generate calls the underlying generator and records estimated
// prompt plus response tokens on success.
func (t *TrackingClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := t.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	tokens := usage.EstimateTokens(prompt) + usage.EstimateTokens(text)
	// Usage accounting must not fail the generation itself.
	_ = t.ledger.Record(t.agent, t.gen.Model(), tokens)
	return text, nil
}
