// Package usage tracks LLM call counts and token volume per agent and
// model in a shared JSON file. Every process that makes LLM calls
// updates the same file, so counts aggregate across the orchestrator
// and the tool-server processes it spawns.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/Eric-Estrada519/MCP-Code-Generator/internal/fsutil"
)

// Counter holds the call and token totals for one (agent, model) pair.
// Both fields only ever grow for the lifetime of the ledger file.
type Counter struct {
	NumAPICalls int `json:"numApiCalls"`
	TotalTokens int `json:"totalTokens"`
}

// Snapshot is a full copy of the ledger: agent name -> model name -> counters.
type Snapshot map[string]map[string]Counter

// Ledger is a file-backed usage counter store. Record performs a full
// load-increment-rewrite cycle; there is no cross-process locking, so
// two processes updating at the same moment can lose one increment
// (last writer wins). The rewrite itself is atomic (temp file +
// rename), so readers never see a torn file.
type Ledger struct {
	mu   sync.Mutex
	path string
}

// NewLedger creates a Ledger backed by the JSON file at path.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the backing file path.
func (l *Ledger) Path() string {
	return l.path
}

// Record adds one call and tokens to the (agent, model) counter,
// creating it on first use. A missing or corrupted backing file is
// treated as an empty ledger, never an error.
func (l *Ledger) Record(agent, model string, tokens int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := l.load()
	models, ok := snap[agent]
	if !ok {
		models = make(map[string]Counter)
		snap[agent] = models
	}
	c := models[model]
	c.NumAPICalls++
	c.TotalTokens += tokens
	models[model] = c

	if err := fsutil.WriteJSON(l.path, snap); err != nil {
		return fmt.Errorf("write usage ledger: %w", err)
	}
	return nil
}

// Snapshot returns the full current ledger contents. A missing or
// corrupted backing file reads as an empty ledger.
func (l *Ledger) Snapshot() (Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(), nil
}

// load reads the backing file, degrading to an empty ledger on any
// read or parse failure.
func (l *Ledger) load() Snapshot {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return Snapshot{}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}
	}
	if snap == nil {
		return Snapshot{}
	}
	return snap
}

// Agents returns the agent names in sorted order.
func (s Snapshot) Agents() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalCalls sums numApiCalls across all agents and models.
func (s Snapshot) TotalCalls() int {
	n := 0
	for _, models := range s {
		for _, c := range models {
			n += c.NumAPICalls
		}
	}
	return n
}
