package mcp

import (
	"fmt"
	"strings"
)

// TransportError reports a failure in the subprocess transport: the
// server process could not be started, the handshake did not complete,
// or a stream broke mid-conversation. It is not retriable at this
// layer and aborts the pipeline run that triggered it.
type TransportError struct {
	Server string
	Op     string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tool server %q: %s: %v", e.Server, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ToolNotFoundError reports that the requested tool is absent from the
// server's discovered catalog. Available carries the catalog's tool
// names for diagnostics.
type ToolNotFoundError struct {
	Server    string
	Tool      string
	Available []string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found on server %q (available: %s)",
		e.Tool, e.Server, strings.Join(e.Available, ", "))
}
