// Shared helpers for primetime CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mesh-intelligence/primetime/internal/engine"
	"github.com/mesh-intelligence/primetime/internal/sqlite"
	"github.com/mesh-intelligence/primetime/pkg/types"
)

// envelope is the uniform JSON output shape for --json mode.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// services bundles the attached backend with the wired engine components.
// The caller must defer Close.
type services struct {
	backend      *sqlite.Backend
	orchestrator *engine.Orchestrator
	recommender  *engine.Recommender
	abtests      *engine.ABTestEngine
	dataDir      string
}

// Close detaches the backend.
func (s *services) Close() error {
	return s.backend.Detach()
}

// attachServices resolves the data directory, attaches the SQLite backend,
// and wires the engine components onto it.
func attachServices() (*services, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: defaultBackend,
		DataDir: dataDir,
		Engine:  engineCfg,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	clock := engine.SystemClock()
	aggregator := engine.NewAggregator(backend.Engagement(), clock)
	scorer := engine.NewScorer()
	recommender := engine.NewRecommender(aggregator, scorer, backend.OptimalTimes(), nil, clock, cfg.Engine)
	orchestrator := engine.NewOrchestrator(backend.Content(), backend.Engagement(), backend.Notices(), recommender, clock, cfg.Engine)
	abtests := engine.NewABTestEngine(backend.Tests(), backend.Content(), backend.Engagement(),
		backend.OptimalTimes(), aggregator, scorer, backend.Insights(), clock, cfg.Engine)

	return &services{
		backend:      backend,
		orchestrator: orchestrator,
		recommender:  recommender,
		abtests:      abtests,
		dataDir:      dataDir,
	}, nil
}

// respond prints data as the JSON envelope in --json mode, or via the
// human formatter otherwise.
func respond(data any, human func()) error {
	if flagJSON {
		out, err := json.MarshalIndent(envelope{Success: true, Data: data}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	human()
	return nil
}

// fail prints the error (enveloped in --json mode) and exits with code.
func fail(code int, context string, err error) {
	if flagJSON {
		out, merr := json.Marshal(envelope{Success: false, Error: fmt.Sprintf("%s: %s", context, err)})
		if merr == nil {
			fmt.Println(string(out))
			os.Exit(code)
		}
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", context, err)
	os.Exit(code)
}
