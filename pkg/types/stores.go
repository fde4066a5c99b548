package types

import "time"

// ContentStore persists content items. Implementations own the item
// lifecycle storage; the engine never deletes items.
type ContentStore interface {
	// Create persists a new item. When ItemID is empty a UUID v7 is
	// generated. Returns the actual ID used.
	Create(item *ContentItem) (string, error)

	// Update overwrites the stored item.
	// Returns ErrItemNotFound if no item exists with that ID.
	Update(id string, item *ContentItem) error

	// Get retrieves an item by ID.
	// Returns ErrItemNotFound if no item exists with that ID.
	Get(id string) (*ContentItem, error)

	// ListByStatus returns all items with the given status.
	ListByStatus(status string) ([]*ContentItem, error)
}

// EngagementStore persists engagement records keyed by content item ID.
type EngagementStore interface {
	// Upsert inserts or overwrites the record for its content item.
	// Re-upserting the same item is a no-op overwrite, never a second row.
	Upsert(rec *EngagementRecord) error

	// Get retrieves the record for a content item.
	// Returns ErrRecordNotFound if none exists.
	Get(contentItemID string) (*EngagementRecord, error)

	// ListPublishedSince returns all records with a non-nil published
	// time at or after the given instant.
	ListPublishedSince(since time.Time) ([]*EngagementRecord, error)
}

// OptimalTimeRepository persists the derived optimal-time table. Load on an
// empty repository returns an empty table, not an error.
type OptimalTimeRepository interface {
	Load() (OptimalTimeTable, error)

	// Save replaces the stored table wholesale.
	Save(table OptimalTimeTable) error
}

// ABTestStore persists A/B tests.
type ABTestStore interface {
	Create(test *ABTest) (string, error)
	Update(id string, test *ABTest) error

	// Get returns ErrTestNotFound if no test exists with that ID.
	Get(id string) (*ABTest, error)
	ListByStatus(status string) ([]*ABTest, error)
}

// NoticeStore persists one-shot reschedule notices.
type NoticeStore interface {
	Append(notice *Notice) error

	// TakeAll returns all pending notices and clears them.
	TakeAll() ([]*Notice, error)
}

// InsightLog records resolved A/B insights append-only.
type InsightLog interface {
	Append(insight *Insight) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}
