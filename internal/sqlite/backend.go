package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// dbFileName is the database file created inside the data directory.
const dbFileName = "primetime.db"

// Backend owns the SQLite database and hands out typed store accessors.
// The database is the system of record; the schema is applied on Attach
// and data survives across attaches.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	dataDir  string

	content    *contentStore
	engagement *engagementStore
	timetable  *timetableStore
	tests      *abTestStore
	notices    *noticeStore
	insights   *insightLog
}

// NewBackend creates a detached backend; call Attach with a Config.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach validates the config, creates the data directory if needed, opens
// the database, and applies the schema.
// Returns ErrAlreadyAttached if called while attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.content = &contentStore{backend: b}
	b.engagement = &engagementStore{backend: b}
	b.timetable = &timetableStore{backend: b}
	b.tests = &abTestStore{backend: b}
	b.notices = &noticeStore{backend: b}
	b.insights = &insightLog{dataDir: dataDir}
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent: detaching a detached backend
// succeeds. After Detach, store operations return ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Content returns the content item store.
func (b *Backend) Content() types.ContentStore { return b.content }

// Engagement returns the engagement record store.
func (b *Backend) Engagement() types.EngagementStore { return b.engagement }

// OptimalTimes returns the optimal-time table repository.
func (b *Backend) OptimalTimes() types.OptimalTimeRepository { return b.timetable }

// Tests returns the A/B test store.
func (b *Backend) Tests() types.ABTestStore { return b.tests }

// Notices returns the reschedule notice store.
func (b *Backend) Notices() types.NoticeStore { return b.notices }

// Insights returns the append-only insights log.
func (b *Backend) Insights() types.InsightLog { return b.insights }

// conn returns the open database handle, or ErrStoreDetached.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// generateUUID generates a UUID v7 for entity IDs, falling back to v4.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// formatTime renders a timestamp as an RFC 3339 string in UTC. Second
// precision keeps the column values fixed-width, so SQL string comparison
// orders them chronologically.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatTimePtr renders an optional timestamp, mapping nil to SQL NULL.
func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// parseTime parses an RFC 3339 column value.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// parseTimePtr parses a nullable RFC 3339 column value.
func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
