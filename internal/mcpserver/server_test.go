package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func echoServer() *Server {
	return New("EchoServer",
		Tool{
			Name:        "echo",
			Description: "Echo the input back",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{"type": "string"},
				},
			},
			Handler: func(_ context.Context, args map[string]string) string {
				return "echo: " + args["text"]
			},
		},
	)
}

// roundTrip feeds request lines to Serve and returns the decoded
// responses in order.
func roundTrip(t *testing.T, s *Server, lines ...string) []map[string]any {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	if err := s.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var resps []map[string]any
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("bad response line %q: %v", sc.Text(), err)
		}
		resps = append(resps, m)
	}
	return resps
}

func TestInitializeHandshake(t *testing.T) {
	resps := roundTrip(t, echoServer(),
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26"}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
	)
	if len(resps) != 1 {
		t.Fatalf("got %d responses, want 1 (notification must not be answered)", len(resps))
	}
	result := resps[0]["result"].(map[string]any)
	info := result["serverInfo"].(map[string]any)
	if info["name"] != "EchoServer" {
		t.Errorf("serverInfo.name = %v, want EchoServer", info["name"])
	}
}

func TestToolsListAndCall(t *testing.T) {
	resps := roundTrip(t, echoServer(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hi"}}}`,
	)
	if len(resps) != 2 {
		t.Fatalf("got %d responses, want 2", len(resps))
	}

	tools := resps[0]["result"].(map[string]any)["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("catalog has %d tools, want 1", len(tools))
	}
	if name := tools[0].(map[string]any)["name"]; name != "echo" {
		t.Errorf("tool name = %v, want echo", name)
	}

	content := resps[1]["result"].(map[string]any)["content"].([]any)
	part := content[0].(map[string]any)
	if part["type"] != "text" || part["text"] != "echo: hi" {
		t.Errorf("call result part = %v, want text 'echo: hi'", part)
	}
}

func TestUnknownToolAndMethod(t *testing.T) {
	resps := roundTrip(t, echoServer(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"bogus/method"}`,
	)
	if len(resps) != 2 {
		t.Fatalf("got %d responses, want 2", len(resps))
	}
	for i, want := range []string{"unknown tool", "method not found"} {
		errObj, ok := resps[i]["error"].(map[string]any)
		if !ok {
			t.Fatalf("response %d has no error object", i)
		}
		if msg := fmt.Sprint(errObj["message"]); !strings.Contains(msg, want) {
			t.Errorf("response %d error = %q, want containing %q", i, msg, want)
		}
	}
}

func TestMalformedLinesSkipped(t *testing.T) {
	resps := roundTrip(t, echoServer(),
		`this is not json`,
		``,
		`{"jsonrpc":"2.0","id":7,"method":"tools/list"}`,
	)
	if len(resps) != 1 {
		t.Fatalf("got %d responses, want 1", len(resps))
	}
	if id := resps[0]["id"].(float64); id != 7 {
		t.Errorf("response id = %v, want 7", id)
	}
}

func TestRequiredArg(t *testing.T) {
	args := map[string]string{"description": "an app"}
	if v, err := RequiredArg(args, "description"); err != nil || v != "an app" {
		t.Errorf("RequiredArg(description) = %q, %v", v, err)
	}
	if _, err := RequiredArg(args, "plan"); err == nil {
		t.Error("RequiredArg(plan) should fail for missing key")
	}
}
