// Package web serves the browser front end: a form that triggers a
// generation run, archive downloads, and the usage report.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/pipeline"
	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/usage"
)

//go:embed templates
var templateFS embed.FS

// GenerateRunner runs a generation pipeline for a description.
type GenerateRunner interface {
	Run(ctx context.Context, description string) (*pipeline.Result, error)
}

// Server hosts the web UI.
type Server struct {
	runner    GenerateRunner
	store     *pipeline.Store
	ledger    *usage.Ledger
	outputDir string
	port      int

	indexTmpl *template.Template
	usageTmpl *template.Template
}

// NewServer creates a Server with parsed templates. The store may be
// nil when run history is not wanted.
func NewServer(runner GenerateRunner, store *pipeline.Store, ledger *usage.Ledger, outputDir string, port int) *Server {
	return &Server{
		runner:    runner,
		store:     store,
		ledger:    ledger,
		outputDir: outputDir,
		port:      port,
		indexTmpl: mustParseTmpl("base.html", "index.html"),
		usageTmpl: mustParseTmpl("base.html", "usage.html"),
	}
}

func mustParseTmpl(names ...string) *template.Template {
	patterns := make([]string, len(names))
	for i, n := range names {
		patterns[i] = "templates/" + n
	}
	return template.Must(template.New("").ParseFS(templateFS, patterns...))
}

// Handler returns the route mux, exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/download/", s.handleDownload)
	mux.HandleFunc("/usage", s.handleUsage)
	mux.HandleFunc("/usage.json", s.handleUsageJSON)
	return mux
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("MCP Code Generator UI: http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type indexData struct {
	Description string
	Error       string
	Result      *pipeline.Result
	ArchiveName string
	Runs        []pipeline.RunRecord
}

func (s *Server) renderIndex(w http.ResponseWriter, data indexData) {
	if s.store != nil {
		runs, err := s.store.List()
		if err == nil && len(runs) > 10 {
			runs = runs[:10]
		}
		data.Runs = runs
	}
	if err := s.indexTmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.renderIndex(w, indexData{})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	description := r.FormValue("description")
	if strings.TrimSpace(description) == "" {
		w.WriteHeader(http.StatusBadRequest)
		s.renderIndex(w, indexData{Error: "Please enter an application description."})
		return
	}

	result, err := s.runner.Run(r.Context(), description)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		s.renderIndex(w, indexData{Description: description, Error: err.Error()})
		return
	}
	s.renderIndex(w, indexData{
		Result:      result,
		ArchiveName: filepath.Base(result.ArchivePath),
	})
}

// handleDownload serves a generated archive by file name. Only flat
// names inside the output directory are allowed.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/download/")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}
	if !strings.HasSuffix(name, ".zip") {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	http.ServeFile(w, r, filepath.Join(s.outputDir, name))
}

type usageRow struct {
	Agent  string
	Model  string
	Calls  int
	Tokens int
}

func (s *Server) usageRows() ([]usageRow, int, error) {
	snap, err := s.ledger.Snapshot()
	if err != nil {
		return nil, 0, err
	}
	var rows []usageRow
	for _, agent := range snap.Agents() {
		models := snap[agent]
		for _, model := range sortedKeys(models) {
			c := models[model]
			rows = append(rows, usageRow{Agent: agent, Model: model, Calls: c.NumAPICalls, Tokens: c.TotalTokens})
		}
	}
	return rows, snap.TotalCalls(), nil
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	rows, total, err := s.usageRows()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data := struct {
		Rows       []usageRow
		TotalCalls int
	}{rows, total}
	if err := s.usageTmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleUsageJSON(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ledger.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
