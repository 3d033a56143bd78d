package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/pipeline"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/usage"
)

type stubRunner struct {
	result *pipeline.Result
	err    error
	got    string
}

func (s *stubRunner) Run(_ context.Context, description string) (*pipeline.Result, error) {
	s.got = description
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testServer(t *testing.T, runner GenerateRunner) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	ledger := usage.NewLedger(filepath.Join(dir, "usage.json"))
	return NewServer(runner, nil, ledger, dir, 0), dir
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGenerateSuccess(t *testing.T) {
	runner := &stubRunner{result: &pipeline.Result{
		RunID:       "run-1",
		ArchivePath: "/out/generated_app_20260830_120000.zip",
	}}
	srv, _ := testServer(t, runner)

	w := postForm(t, srv.Handler(), "/generate", url.Values{"description": {"a notes app"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if runner.got != "a notes app" {
		t.Errorf("runner got %q", runner.got)
	}
	if !strings.Contains(w.Body.String(), "generated_app_20260830_120000.zip") {
		t.Errorf("response missing download link: %s", w.Body.String())
	}
}

func TestGenerateBlankDescription(t *testing.T) {
	runner := &stubRunner{}
	srv, _ := testServer(t, runner)

	w := postForm(t, srv.Handler(), "/generate", url.Values{"description": {"   "}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if runner.got != "" {
		t.Error("runner should not be called for blank input")
	}
}

func TestGeneratePipelineFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("codegen server unreachable")}
	srv, _ := testServer(t, runner)

	w := postForm(t, srv.Handler(), "/generate", url.Values{"description": {"an app"}})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(w.Body.String(), "codegen server unreachable") {
		t.Errorf("response missing error text: %s", w.Body.String())
	}
}

func TestGenerateMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t, &stubRunner{})
	req := httptest.NewRequest("GET", "/generate", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}

func TestDownload(t *testing.T) {
	srv, dir := testServer(t, &stubRunner{})
	if err := os.WriteFile(filepath.Join(dir, "generated_app_1.zip"), []byte("PK"), 0o644); err != nil {
		t.Fatalf("write zip: %v", err)
	}

	req := httptest.NewRequest("GET", "/download/generated_app_1.zip", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	for _, path := range []string{"/download/../usage.json", "/download/notes.txt", "/download/"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			t.Errorf("GET %s = 200, want rejection", path)
		}
	}
}

func TestUsageJSON(t *testing.T) {
	srv, _ := testServer(t, &stubRunner{})
	if err := srv.ledger.Record("CodeGenerator", "gemini-2.5-flash", 12); err != nil {
		t.Fatalf("Record: %v", err)
	}

	req := httptest.NewRequest("GET", "/usage.json", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var snap usage.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap["CodeGenerator"]["gemini-2.5-flash"].TotalTokens != 12 {
		t.Errorf("unexpected snapshot: %v", snap)
	}
}

func TestUsagePage(t *testing.T) {
	srv, _ := testServer(t, &stubRunner{})
	if err := srv.ledger.Record("PlanAgent", "gemini-2.5-flash", 7); err != nil {
		t.Fatalf("Record: %v", err)
	}

	req := httptest.NewRequest("GET", "/usage", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "PlanAgent") {
		t.Errorf("usage page missing agent row: %s", w.Body.String())
	}
}
