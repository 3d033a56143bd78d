package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/fsutil"
)

// RunRecord is the persisted summary of a completed run.
type RunRecord struct {
	RunID       string `json:"run_id"`
	Description string `json:"description"`
	ArchivePath string `json:"archive_path"`
	Refined     bool   `json:"refined"`
	CreatedAt   string `json:"created_at"`
}

// Store keeps run history as one directory per run under baseDir.
type Store struct {
	baseDir string // typically ~/.mcpgen/runs
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

func (s *Store) runPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "run.json")
}

// Save persists the record for a completed run.
func (s *Store) Save(result *Result) error {
	dir := filepath.Join(s.baseDir, result.RunID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	rec := RunRecord{
		RunID:       result.RunID,
		Description: result.State.Description,
		ArchivePath: result.ArchivePath,
		Refined:     result.State.Refined,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	return fsutil.WriteJSON(s.runPath(result.RunID), rec)
}

// Get reads the record for a run.
func (s *Store) Get(runID string) (*RunRecord, error) {
	var rec RunRecord
	if err := fsutil.ReadJSON(s.runPath(runID), &rec); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, err
	}
	return &rec, nil
}

// List returns all run records, newest first.
func (s *Store) List() ([]RunRecord, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", s.baseDir, err)
	}

	var records []RunRecord
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Get(entry.Name())
		if err != nil {
			continue // skip broken entries
		}
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	return records, nil
}

// Delete removes all data for a run.
func (s *Store) Delete(runID string) error {
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("run %s not found", runID)
	}
	return os.RemoveAll(dir)
}
