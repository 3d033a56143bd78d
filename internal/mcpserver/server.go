// Package mcpserver implements the server side of the tool-server
// protocol: a newline-delimited JSON-RPC loop on stdin/stdout that
// answers initialize, tools/list, and tools/call. Each tool-server
// binary hosts one Server with a fixed tool catalog.
package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

const protocolVersion = "2025-03-26"

// HandlerFunc executes one tool call and returns the result text.
// Failures are reported in-band as marker-prefixed text, never as a
// protocol error, so handlers do not return an error value.
type HandlerFunc func(ctx context.Context, args map[string]string) string

// Tool is one named operation in the server's catalog.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     HandlerFunc
}

// Server hosts a tool catalog over one stdin/stdout session.
type Server struct {
	name  string
	tools []Tool
}

// New creates a Server with the given catalog.
func New(name string, tools ...Tool) *Server {
	return &Server{name: name, tools: tools}
}

// Tools returns the catalog.
func (s *Server) Tools() []Tool {
	return s.tools
}

// ServeStdio runs the request loop on the process's stdin/stdout until
// stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads requests from in and writes responses to out until in is
// exhausted. Malformed lines are skipped; notifications get no
// response.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	r := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 && line[0] == '{' {
			if werr := s.dispatch(ctx, line, out); werr != nil {
				return fmt.Errorf("write response: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}
	}
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      int64        `json:"id"`
	Result  any          `json:"result,omitempty"`
	Error   *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

type textPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (s *Server) dispatch(ctx context.Context, line []byte, out io.Writer) error {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return nil // not a request frame; ignore
	}
	if req.ID == nil {
		return nil // notification
	}

	result, rpcErr := s.handle(ctx, &req)
	resp := response{JSONRPC: "2.0", ID: *req.ID, Result: result, Error: rpcErr}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = out.Write(b)
	return err
}

func (s *Server) handle(ctx context.Context, req *request) (any, *errorDetail) {
	switch req.Method {
	case "initialize":
		return map[string]any{
			"protocolVersion": protocolVersion,
			"serverInfo":      map[string]string{"name": s.name},
			"capabilities":    map[string]any{"tools": map[string]any{}},
		}, nil

	case "tools/list":
		infos := make([]toolInfo, 0, len(s.tools))
		for _, t := range s.tools {
			infos = append(infos, toolInfo{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: t.InputSchema,
			})
		}
		return map[string]any{"tools": infos}, nil

	case "tools/call":
		var params struct {
			Name      string            `json:"name"`
			Arguments map[string]string `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, &errorDetail{Code: -32602, Message: "invalid params: " + err.Error()}
		}
		for _, t := range s.tools {
			if t.Name == params.Name {
				text := t.Handler(ctx, params.Arguments)
				return map[string]any{
					"content": []textPart{{Type: "text", Text: text}},
				}, nil
			}
		}
		return nil, &errorDetail{Code: -32602, Message: fmt.Sprintf("unknown tool %q", params.Name)}

	default:
		return nil, &errorDetail{Code: -32601, Message: "method not found: " + req.Method}
	}
}

// RequiredArg fetches a named argument, returning an error when it is
// missing or blank.
func RequiredArg(args map[string]string, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == "" {
		return "", errors.New("missing required argument " + name)
	}
	return v, nil
}
