package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// Compile-time interface check.
var _ types.EngagementStore = (*engagementStore)(nil)

// engagementStore persists engagement records, one row per content item.
type engagementStore struct {
	backend *Backend
}

const engagementColumns = `content_item_id, views, clicks, shares, comments,
	engagement_score, performance_rating, scheduled_time, published_time, updated_at`

// Upsert inserts or overwrites the record keyed on its content item ID.
// Retrying the same write is a no-op overwrite, never a duplicate row.
func (s *engagementStore) Upsert(rec *types.EngagementRecord) error {
	db, err := s.backend.conn()
	if err != nil {
		return err
	}
	if rec.ContentItemID == "" {
		return types.ErrInvalidID
	}
	if rec.PerformanceRating == "" {
		rec.PerformanceRating = types.RatingPending
	}
	if !types.ValidRating(rec.PerformanceRating) {
		return fmt.Errorf("%w: %q", types.ErrInvalidRating, rec.PerformanceRating)
	}
	rec.UpdatedAt = time.Now().UTC()

	_, err = db.Exec(
		`INSERT INTO engagement_records (`+engagementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(content_item_id) DO UPDATE SET
		   views = excluded.views,
		   clicks = excluded.clicks,
		   shares = excluded.shares,
		   comments = excluded.comments,
		   engagement_score = excluded.engagement_score,
		   performance_rating = excluded.performance_rating,
		   scheduled_time = excluded.scheduled_time,
		   published_time = excluded.published_time,
		   updated_at = excluded.updated_at`,
		rec.ContentItemID, rec.Views, rec.Clicks, rec.Shares, rec.Comments,
		rec.EngagementScore, rec.PerformanceRating,
		formatTimePtr(rec.ScheduledTime), formatTimePtr(rec.PublishedTime),
		formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting engagement record %s: %w", rec.ContentItemID, err)
	}
	return nil
}

// Get retrieves the record for a content item.
func (s *engagementStore) Get(contentItemID string) (*types.EngagementRecord, error) {
	db, err := s.backend.conn()
	if err != nil {
		return nil, err
	}
	if contentItemID == "" {
		return nil, types.ErrInvalidID
	}
	row := db.QueryRow(
		`SELECT `+engagementColumns+` FROM engagement_records WHERE content_item_id = ?`,
		contentItemID)
	rec, err := hydrateEngagementRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting engagement record %s: %w", contentItemID, err)
	}
	return rec, nil
}

// ListPublishedSince returns all records published at or after the given
// instant, oldest first.
func (s *engagementStore) ListPublishedSince(since time.Time) ([]*types.EngagementRecord, error) {
	db, err := s.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		`SELECT `+engagementColumns+` FROM engagement_records
		 WHERE published_time IS NOT NULL AND published_time >= ?
		 ORDER BY published_time`,
		formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("listing engagement records: %w", err)
	}
	defer rows.Close()

	var records []*types.EngagementRecord
	for rows.Next() {
		rec, err := hydrateEngagementRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating engagement record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning engagement records: %w", err)
	}
	return records, nil
}

// hydrateEngagementRecord scans one row into an EngagementRecord.
func hydrateEngagementRecord(row rowScanner) (*types.EngagementRecord, error) {
	var (
		rec                  types.EngagementRecord
		scheduled, published sql.NullString
		updatedStr           string
	)
	err := row.Scan(&rec.ContentItemID, &rec.Views, &rec.Clicks, &rec.Shares,
		&rec.Comments, &rec.EngagementScore, &rec.PerformanceRating,
		&scheduled, &published, &updatedStr)
	if err != nil {
		return nil, err
	}
	if rec.ScheduledTime, err = parseTimePtr(scheduled); err != nil {
		return nil, err
	}
	if rec.PublishedTime, err = parseTimePtr(published); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, err
	}
	return &rec, nil
}
