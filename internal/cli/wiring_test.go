package cli

import (
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/config"
)

func TestBuildAppSharesConfiguredPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = dir
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.UsageFile = filepath.Join(dir, "usage.json")
	cfg.Paths.EventDB = filepath.Join(dir, "events.db")

	a := buildApp(cfg)
	defer a.cleanup()

	if a.runner == nil {
		t.Fatal("buildApp returned nil runner")
	}
	if got, want := a.ledger.Path(), cfg.Paths.UsageFile; got != want {
		t.Errorf("ledger path = %q, want %q", got, want)
	}
	if got, want := a.store.BaseDir(), filepath.Join(dir, "runs"); got != want {
		t.Errorf("store dir = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short unchanged", "hello", 60, "hello"},
		{"exact length unchanged", "abcde", 5, "abcde"},
		{"ascii cut", "abcdefghij", 8, "abcde..."},
		{"multi-byte runes kept whole", "héllo wörld ünïcode test", 10, "héllo w..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.in, tc.max)
			if got != tc.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tc.in, tc.max, got)
			}
		})
	}
}
