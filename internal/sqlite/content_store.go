package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// Compile-time interface check.
var _ types.ContentStore = (*contentStore)(nil)

// contentStore persists content items. Each operation hydrates between
// SQLite rows and *types.ContentItem structs.
type contentStore struct {
	backend *Backend
}

const contentColumns = `item_id, title, body, status, scheduled_time, published_time,
	uses_optimal_time, rescheduled_from, created_at, updated_at`

// Create persists a new item. An empty ItemID gets a generated UUID v7;
// an empty status defaults to draft.
func (s *contentStore) Create(item *types.ContentItem) (string, error) {
	db, err := s.backend.conn()
	if err != nil {
		return "", err
	}
	if item.Title == "" {
		return "", types.ErrInvalidTitle
	}
	if item.Status == "" {
		item.Status = types.StatusDraft
	}
	if !types.ValidStatus(item.Status) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidStatus, item.Status)
	}
	if item.ItemID == "" {
		item.ItemID = generateUUID()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err = db.Exec(
		`INSERT INTO content_items (`+contentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ItemID, item.Title, item.Body, item.Status,
		formatTimePtr(item.ScheduledTime), formatTimePtr(item.PublishedTime),
		boolToInt(item.UsesOptimalTime), item.RescheduledFrom,
		formatTime(item.CreatedAt), formatTime(item.UpdatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting content item: %w", err)
	}
	return item.ItemID, nil
}

// Update overwrites the stored item.
// Returns ErrItemNotFound when the row does not exist.
func (s *contentStore) Update(id string, item *types.ContentItem) error {
	db, err := s.backend.conn()
	if err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}
	if !types.ValidStatus(item.Status) {
		return fmt.Errorf("%w: %q", types.ErrInvalidStatus, item.Status)
	}
	item.UpdatedAt = time.Now().UTC()

	res, err := db.Exec(
		`UPDATE content_items SET title = ?, body = ?, status = ?, scheduled_time = ?,
		 published_time = ?, uses_optimal_time = ?, rescheduled_from = ?, updated_at = ?
		 WHERE item_id = ?`,
		item.Title, item.Body, item.Status,
		formatTimePtr(item.ScheduledTime), formatTimePtr(item.PublishedTime),
		boolToInt(item.UsesOptimalTime), item.RescheduledFrom,
		formatTime(item.UpdatedAt), id,
	)
	if err != nil {
		return fmt.Errorf("updating content item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrItemNotFound
	}
	return nil
}

// Get retrieves an item by ID.
func (s *contentStore) Get(id string) (*types.ContentItem, error) {
	db, err := s.backend.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := db.QueryRow(
		`SELECT `+contentColumns+` FROM content_items WHERE item_id = ?`, id)
	item, err := hydrateContentItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrItemNotFound
		}
		return nil, fmt.Errorf("getting content item %s: %w", id, err)
	}
	return item, nil
}

// ListByStatus returns all items with the given status, oldest first.
func (s *contentStore) ListByStatus(status string) ([]*types.ContentItem, error) {
	db, err := s.backend.conn()
	if err != nil {
		return nil, err
	}
	if !types.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidStatus, status)
	}
	rows, err := db.Query(
		`SELECT `+contentColumns+` FROM content_items WHERE status = ? ORDER BY created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("listing content items: %w", err)
	}
	defer rows.Close()

	var items []*types.ContentItem
	for rows.Next() {
		item, err := hydrateContentItem(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating content item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning content items: %w", err)
	}
	return items, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateContentItem scans one row into a ContentItem.
func hydrateContentItem(row rowScanner) (*types.ContentItem, error) {
	var (
		item                     types.ContentItem
		scheduled, published     sql.NullString
		usesOptimal              int
		createdAtStr, updatedStr string
	)
	err := row.Scan(&item.ItemID, &item.Title, &item.Body, &item.Status,
		&scheduled, &published, &usesOptimal, &item.RescheduledFrom,
		&createdAtStr, &updatedStr)
	if err != nil {
		return nil, err
	}
	if item.ScheduledTime, err = parseTimePtr(scheduled); err != nil {
		return nil, err
	}
	if item.PublishedTime, err = parseTimePtr(published); err != nil {
		return nil, err
	}
	if item.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, err
	}
	item.UsesOptimalTime = usesOptimal != 0
	return &item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
