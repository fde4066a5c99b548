package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// insightsFileName is the append-only log inside the data directory.
const insightsFileName = "insights.jsonl"

// Compile-time interface check.
var _ types.InsightLog = (*insightLog)(nil)

// insightLog records resolved A/B insights as one JSON object per line,
// append-only. The log is never rewritten or compacted.
type insightLog struct {
	mu      sync.Mutex
	dataDir string
}

// Append writes one insight line and syncs it to disk.
func (l *insightLog) Append(insight *types.Insight) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line, err := json.Marshal(insight)
	if err != nil {
		return fmt.Errorf("marshaling insight: %w", err)
	}

	path := filepath.Join(l.dataDir, insightsFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing insight: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	return nil
}

// ReadInsights returns every parseable insight in the log, oldest first.
// Malformed lines are skipped.
func ReadInsights(dataDir string) ([]*types.Insight, error) {
	path := filepath.Join(dataDir, insightsFileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var insights []*types.Insight
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var in types.Insight
		if err := json.Unmarshal(line, &in); err != nil {
			continue
		}
		insights = append(insights, &in)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return insights, nil
}
