package types

import "time"

// Content item statuses. An item progresses draft → scheduled → published.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// validStatuses is the set of recognized content item status values.
var validStatuses = map[string]bool{
	StatusDraft:     true,
	StatusScheduled: true,
	StatusPublished: true,
}

// ValidStatus reports whether s is a recognized content item status.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// ContentItem represents a piece of content managed by the scheduler.
type ContentItem struct {
	ItemID          string     // UUID v7, generated on creation.
	Title           string     // Human-readable title (required, non-empty).
	Body            string     // Content body.
	Status          string     // One of the Status constants.
	ScheduledTime   *time.Time // Planned publish time; nil for drafts.
	PublishedTime   *time.Time // Actual publish time; nil until published.
	UsesOptimalTime bool       // True when the scheduler picks the time.
	RescheduledFrom string     // ItemID of the original when this is a reschedule clone.
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Schedule moves the item to the scheduled status at the given time.
// Re-scheduling an already-scheduled item is allowed (the reconcile job
// re-snaps optimal-time items as fresher data arrives). Returns
// ErrInvalidTransition when the item is already published.
func (c *ContentItem) Schedule(at time.Time, optimal bool) error {
	if c.Status == StatusPublished {
		return ErrInvalidTransition
	}
	t := at
	c.ScheduledTime = &t
	c.UsesOptimalTime = optimal
	c.Status = StatusScheduled
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkPublished records the publish transition observed from the content
// store. Returns ErrInvalidTransition unless the item is scheduled.
// Idempotent: publishing an already-published item succeeds without change.
func (c *ContentItem) MarkPublished(at time.Time) error {
	if c.Status == StatusPublished {
		return nil
	}
	if c.Status != StatusScheduled {
		return ErrInvalidTransition
	}
	t := at
	c.PublishedTime = &t
	c.Status = StatusPublished
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// CloneForReschedule returns a new scheduled item carrying this item's title
// and body, cross-referenced back to the original. The original is never
// mutated; rescheduling leaves history intact.
func (c *ContentItem) CloneForReschedule(at time.Time) *ContentItem {
	t := at
	return &ContentItem{
		Title:           c.Title,
		Body:            c.Body,
		Status:          StatusScheduled,
		ScheduledTime:   &t,
		UsesOptimalTime: true,
		RescheduledFrom: c.ItemID,
	}
}
