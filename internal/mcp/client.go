// Package mcp implements the client side of the tool-server protocol:
// newline-delimited JSON-RPC over a spawned subprocess's stdin/stdout.
// Every invocation gets a fresh process — spawn, initialize handshake,
// catalog discovery, one tools/call, teardown — so no interpreter or
// session state leaks between calls.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// MaxFrameBytes caps a single response frame; anything larger is
// treated as a broken stream.
const MaxFrameBytes = 16 << 20

// DefaultTimeout bounds one request/response roundtrip when the caller
// does not configure one.
const DefaultTimeout = 120 * time.Second

// ServerSpec describes how to launch one tool server. Env entries are
// appended to the inherited environment.
type ServerSpec struct {
	Command string
	Args    []string
	Env     []string
}

// Dialer invokes tools on named servers. It implements the pipeline's
// ToolCaller contract: one short-lived subprocess per Invoke, torn
// down on every exit path.
type Dialer struct {
	servers map[string]ServerSpec
	timeout time.Duration
}

// NewDialer creates a Dialer over the given server table.
func NewDialer(servers map[string]ServerSpec, timeout time.Duration) *Dialer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dialer{servers: servers, timeout: timeout}
}

// Invoke runs one tool call against the named server: spawn, handshake,
// discover, call, tear down. The result is always text; non-text
// content is JSON-encoded rather than dropped. Failures are
// *TransportError or *ToolNotFoundError.
func (d *Dialer) Invoke(ctx context.Context, server, tool string, args map[string]string) (string, error) {
	spec, ok := d.servers[server]
	if !ok {
		return "", fmt.Errorf("unknown tool server %q", server)
	}

	s, err := dial(ctx, server, spec, d.timeout)
	if err != nil {
		return "", err
	}
	defer s.close()

	if err := s.initialize(ctx); err != nil {
		return "", err
	}

	tools, err := s.listTools(ctx)
	if err != nil {
		return "", err
	}
	found := false
	for _, t := range tools {
		if t.Name == tool {
			found = true
			break
		}
	}
	if !found {
		names := make([]string, 0, len(tools))
		for _, t := range tools {
			names = append(names, t.Name)
		}
		return "", &ToolNotFoundError{Server: server, Tool: tool, Available: names}
	}

	return s.callTool(ctx, tool, args)
}

// ListTools spawns the named server just long enough to fetch its
// catalog.
func (d *Dialer) ListTools(ctx context.Context, server string) ([]Tool, error) {
	spec, ok := d.servers[server]
	if !ok {
		return nil, fmt.Errorf("unknown tool server %q", server)
	}

	s, err := dial(ctx, server, spec, d.timeout)
	if err != nil {
		return nil, err
	}
	defer s.close()

	if err := s.initialize(ctx); err != nil {
		return nil, err
	}
	return s.listTools(ctx)
}

// session is one live subprocess conversation. It is used by a single
// goroutine for a single invocation and then closed. A reader
// goroutine feeds response frames into a channel so roundtrips can
// observe timeouts and cancellation while the server is silent.
type session struct {
	server  string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	seq     int64
	timeout time.Duration
	frames  chan frame
}

type frame struct {
	line []byte
	err  error
}

func dial(ctx context.Context, server string, spec ServerSpec, timeout time.Duration) (*session, error) {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &TransportError{Server: server, Op: "open stdin", Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &TransportError{Server: server, Op: "open stdout", Err: err}
	}
	cmd.Stderr = os.Stderr // keep stdout clean for protocol frames
	if err := cmd.Start(); err != nil {
		return nil, &TransportError{Server: server, Op: "start process", Err: err}
	}
	s := &session{
		server:  server,
		cmd:     cmd,
		stdin:   stdin,
		stdout:  bufio.NewReader(stdout),
		timeout: timeout,
		frames:  make(chan frame, 8),
	}
	go s.readLoop()
	return s, nil
}

// readLoop pumps response frames from the server's stdout until the
// stream ends. The terminal error is delivered as the final frame, and
// the channel is closed so consumers never block on a dead stream.
func (s *session) readLoop() {
	for {
		line, err := s.readFrame()
		s.frames <- frame{line: line, err: err}
		if err != nil {
			close(s.frames)
			return
		}
	}
}

// close tears the session down: stdin is closed to signal the server,
// and the process is killed if it does not exit promptly. Safe on
// every exit path.
func (s *session) close() {
	_ = s.stdin.Close()

	// Drain trailing frames so the reader goroutine can exit; it
	// closes the channel once the stream ends, so this loop always
	// terminates even when the terminal frame was already consumed.
	go func() {
		for range s.frames {
		}
	}()

	done := make(chan struct{})
	go func() {
		_ = s.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		_ = s.cmd.Process.Kill()
		<-done
	}
}

func (s *session) initialize(ctx context.Context) error {
	params := map[string]any{
		"protocolVersion": ProtocolVersion,
		"clientInfo": map[string]string{
			"name": "mcpgen",
		},
	}
	if _, err := s.call(ctx, "initialize", params); err != nil {
		return err
	}
	return s.notify("notifications/initialized")
}

func (s *session) listTools(ctx context.Context) ([]Tool, error) {
	raw, err := s.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}
	var res listToolsResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &TransportError{Server: s.server, Op: "decode tools/list", Err: err}
	}
	return res.Tools, nil
}

func (s *session) callTool(ctx context.Context, name string, args map[string]string) (string, error) {
	if args == nil {
		args = map[string]string{}
	}
	raw, err := s.call(ctx, "tools/call", callToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", err
	}
	return coerceText(raw), nil
}

// call performs one request/response roundtrip. The response stream is
// read line by line; non-JSON noise is skipped, and frames are matched
// by request ID.
func (s *session) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	s.seq++
	id := s.seq
	req := rpcRequest{JSONRPC: "2.0", ID: &id, Method: method, Params: params}
	if err := s.writeFrame(req); err != nil {
		return nil, &TransportError{Server: s.server, Op: "send " + method, Err: err}
	}

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, &TransportError{Server: s.server, Op: "await " + method, Err: ctx.Err()}
		case <-timer.C:
			return nil, &TransportError{Server: s.server, Op: "await " + method, Err: errors.New("timeout")}
		case f, ok := <-s.frames:
			if !ok {
				return nil, &TransportError{Server: s.server, Op: "read " + method, Err: errors.New("stream closed")}
			}
			if f.err != nil {
				return nil, &TransportError{Server: s.server, Op: "read " + method, Err: f.err}
			}
			line := f.line
			if len(line) == 0 || line[0] != '{' {
				continue
			}
			var resp rpcResponse
			if err := json.Unmarshal(line, &resp); err != nil {
				continue
			}
			if resp.ID != id {
				continue
			}
			if resp.Error != nil {
				return nil, &TransportError{
					Server: s.server,
					Op:     method,
					Err:    fmt.Errorf("rpc error %d: %s", resp.Error.Code, resp.Error.Message),
				}
			}
			return resp.Result, nil
		}
	}
}

// notify sends a request with no ID and expects no response.
func (s *session) notify(method string) error {
	if err := s.writeFrame(rpcRequest{JSONRPC: "2.0", Method: method}); err != nil {
		return &TransportError{Server: s.server, Op: "send " + method, Err: err}
	}
	return nil
}

func (s *session) writeFrame(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = s.stdin.Write(b)
	return err
}

func (s *session) readFrame() ([]byte, error) {
	var buf bytes.Buffer
	for {
		frag, err := s.stdout.ReadBytes('\n')
		buf.Write(frag)
		if buf.Len() > MaxFrameBytes {
			return nil, errors.New("frame too large")
		}
		if err == nil {
			return bytes.TrimSpace(buf.Bytes()), nil
		}
		if err == io.EOF {
			return nil, io.EOF
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return nil, err
		}
	}
}

// coerceText renders a tools/call result as text. Text parts are used
// directly; any other content part (or an unrecognized result shape)
// is JSON-encoded so no data is silently dropped.
func coerceText(raw json.RawMessage) string {
	var res callToolResult
	if err := json.Unmarshal(raw, &res); err != nil || len(res.Content) == 0 {
		return string(raw)
	}
	var out bytes.Buffer
	for i, partRaw := range res.Content {
		var part struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if i > 0 {
			out.WriteByte('\n')
		}
		if err := json.Unmarshal(partRaw, &part); err == nil && part.Type == "text" {
			out.WriteString(part.Text)
			continue
		}
		out.Write(bytes.TrimSpace(partRaw))
	}
	return out.String()
}
