package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// performanceWindow is how far back the reconcile job looks when rating
// freshly published items.
const performanceWindow = 24 * time.Hour

// Orchestrator is the top-level scheduling service. It schedules items,
// observes publishes, and runs the periodic reconciliation that re-snaps
// schedules, rates recent publications, and reschedules poor performers.
type Orchestrator struct {
	content     types.ContentStore
	engagement  types.EngagementStore
	notices     types.NoticeStore
	recommender *Recommender
	clock       types.Clock
	cfg         types.EngineConfig
}

// NewOrchestrator wires an Orchestrator.
func NewOrchestrator(content types.ContentStore, engagement types.EngagementStore,
	notices types.NoticeStore, recommender *Recommender, clock types.Clock, cfg types.EngineConfig,
) *Orchestrator {
	return &Orchestrator{
		content:     content,
		engagement:  engagement,
		notices:     notices,
		recommender: recommender,
		clock:       clock,
		cfg:         cfg,
	}
}

// ItemError records a per-item failure inside a batch operation.
type ItemError struct {
	ItemID string
	Err    error
}

// ReconcileReport summarizes one reconcile run. Per-item failures are
// collected, not fatal: a bad item never blocks the rest of the batch.
type ReconcileReport struct {
	Resnapped   int
	Rated       int
	Rescheduled int
	Errors      []ItemError
}

// ScheduleAt schedules the item at a manually chosen time.
// Returns ErrInvalidTimeSlot when the time is not in the future.
func (o *Orchestrator) ScheduleAt(itemID string, at time.Time) (*types.ContentItem, error) {
	if !at.After(o.clock.Now()) {
		return nil, types.ErrInvalidTimeSlot
	}
	return o.schedule(itemID, at, false)
}

// ScheduleOptimally schedules the item at the recommender's best time.
// When no optimal-time data exists, the fallback time is used if given;
// otherwise ErrNoOptimalTime is returned and nothing is mutated.
func (o *Orchestrator) ScheduleOptimally(itemID string, fallback *time.Time) (*types.ContentItem, error) {
	at, err := o.recommender.RecommendTime(o.cfg.HorizonDays)
	if err != nil {
		if errors.Is(err, types.ErrNoOptimalTime) && fallback != nil {
			return o.ScheduleAt(itemID, *fallback)
		}
		return nil, err
	}
	return o.schedule(itemID, at, true)
}

func (o *Orchestrator) schedule(itemID string, at time.Time, optimal bool) (*types.ContentItem, error) {
	item, err := o.content.Get(itemID)
	if err != nil {
		return nil, err
	}
	if err := item.Schedule(at, optimal); err != nil {
		return nil, err
	}
	if err := o.content.Update(itemID, item); err != nil {
		return nil, fmt.Errorf("updating item %s: %w", itemID, err)
	}
	if err := o.syncScheduleRecord(item); err != nil {
		return nil, err
	}
	return item, nil
}

// syncScheduleRecord mirrors the item's scheduled time onto its engagement
// record, creating the record when missing. Counters on an existing record
// are preserved; the upsert keys on the item ID so retries overwrite
// rather than duplicate.
func (o *Orchestrator) syncScheduleRecord(item *types.ContentItem) error {
	rec, err := o.engagement.Get(item.ItemID)
	if err != nil {
		if !errors.Is(err, types.ErrRecordNotFound) {
			return fmt.Errorf("loading engagement record %s: %w", item.ItemID, err)
		}
		rec = &types.EngagementRecord{
			ContentItemID:     item.ItemID,
			PerformanceRating: types.RatingScheduled,
		}
	}
	rec.ScheduledTime = item.ScheduledTime
	if err := o.engagement.Upsert(rec); err != nil {
		return fmt.Errorf("upserting engagement record %s: %w", item.ItemID, err)
	}
	return nil
}

// OnPublish reacts to the content store's scheduled → published transition:
// the item is marked published and its engagement record is refreshed with
// the publish time and a pending rating. Replayed publishes are no-ops: an
// already-published item keeps its record, so an earned rating survives.
func (o *Orchestrator) OnPublish(itemID string) (*types.ContentItem, error) {
	item, err := o.content.Get(itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == types.StatusPublished {
		return item, nil
	}
	if err := item.MarkPublished(o.clock.Now()); err != nil {
		return nil, err
	}
	if err := o.content.Update(itemID, item); err != nil {
		return nil, fmt.Errorf("updating item %s: %w", itemID, err)
	}

	rec, err := o.engagement.Get(itemID)
	if err != nil {
		if !errors.Is(err, types.ErrRecordNotFound) {
			return nil, fmt.Errorf("loading engagement record %s: %w", itemID, err)
		}
		rec = &types.EngagementRecord{ContentItemID: itemID}
	}
	rec.ScheduledTime = item.ScheduledTime
	rec.PublishedTime = item.PublishedTime
	rec.PerformanceRating = types.RatingPending
	if err := o.engagement.Upsert(rec); err != nil {
		return nil, fmt.Errorf("upserting engagement record %s: %w", itemID, err)
	}
	return item, nil
}

// RecordEngagement adds raw engagement events to the item's record and
// recomputes the derived score. Deltas accumulate; the score is always
// recomputed from the counters, never set directly.
func (o *Orchestrator) RecordEngagement(itemID string, views, clicks, shares, comments int) (*types.EngagementRecord, error) {
	if _, err := o.content.Get(itemID); err != nil {
		return nil, err
	}
	rec, err := o.engagement.Get(itemID)
	if err != nil {
		if !errors.Is(err, types.ErrRecordNotFound) {
			return nil, fmt.Errorf("loading engagement record %s: %w", itemID, err)
		}
		rec = &types.EngagementRecord{
			ContentItemID:     itemID,
			PerformanceRating: types.RatingPending,
		}
	}
	rec.Views += views
	rec.Clicks += clicks
	rec.Shares += shares
	rec.Comments += comments
	rec.Recalculate()
	if err := o.engagement.Upsert(rec); err != nil {
		return nil, fmt.Errorf("upserting engagement record %s: %w", itemID, err)
	}
	return rec, nil
}

// ReconcileSchedule runs the periodic reconciliation in three strictly
// ordered phases: re-snap scheduled optimal-time items to fresh data, rate
// items published in the last 24 hours, and reschedule poor performers.
// Re-running with no new engagement data produces no further mutations.
func (o *Orchestrator) ReconcileSchedule() (*ReconcileReport, error) {
	report := &ReconcileReport{}

	if _, err := o.recommender.RefreshTable(); err != nil {
		return nil, err
	}

	if err := o.resnapScheduled(report); err != nil {
		return nil, err
	}

	rated, err := o.CheckPerformance()
	if err != nil {
		return nil, err
	}
	report.Rated = len(rated)

	if o.cfg.AutoReschedule {
		for _, rec := range rated {
			if rec.PerformanceRating != types.RatingPoor || rec.EngagementScore >= o.cfg.PerformanceThreshold {
				continue
			}
			if _, err := o.ReschedulePost(rec.ContentItemID); err != nil {
				report.Errors = append(report.Errors, ItemError{ItemID: rec.ContentItemID, Err: err})
				continue
			}
			report.Rescheduled++
		}
	}
	return report, nil
}

// resnapScheduled updates every scheduled optimal-time item whose freshly
// recommended time differs from the stored one.
func (o *Orchestrator) resnapScheduled(report *ReconcileReport) error {
	items, err := o.content.ListByStatus(types.StatusScheduled)
	if err != nil {
		return fmt.Errorf("listing scheduled items: %w", err)
	}

	at, err := o.recommender.RecommendTime(o.cfg.HorizonDays)
	if err != nil {
		// No optimal-time data: leave schedules where they are.
		if errors.Is(err, types.ErrNoOptimalTime) {
			return nil
		}
		return err
	}

	for _, item := range items {
		if !item.UsesOptimalTime {
			continue
		}
		if item.ScheduledTime != nil && at.Equal(*item.ScheduledTime) {
			continue
		}
		if _, err := o.schedule(item.ItemID, at, true); err != nil {
			report.Errors = append(report.Errors, ItemError{ItemID: item.ItemID, Err: err})
			continue
		}
		report.Resnapped++
	}
	return nil
}

// CheckPerformance rates every pending engagement record published within
// the last 24 hours: the score is recomputed from the counters and the
// rating derived from the fixed thresholds. Returns the records rated in
// this pass; already-rated records are never touched again.
func (o *Orchestrator) CheckPerformance() ([]*types.EngagementRecord, error) {
	since := o.clock.Now().Add(-performanceWindow)
	records, err := o.engagement.ListPublishedSince(since)
	if err != nil {
		return nil, fmt.Errorf("listing recent records: %w", err)
	}

	var rated []*types.EngagementRecord
	for _, rec := range records {
		if rec.PerformanceRating != types.RatingPending {
			continue
		}
		rec.Recalculate()
		rec.PerformanceRating = types.RatingForScore(rec.EngagementScore)
		if err := o.engagement.Upsert(rec); err != nil {
			return rated, fmt.Errorf("upserting engagement record %s: %w", rec.ContentItemID, err)
		}
		rated = append(rated, rec)
	}
	return rated, nil
}

// ReschedulePost clones a published underperformer into a new scheduled
// item at a fresh optimal time and emits a one-shot notice. The original
// item and its engagement history are never mutated. Fails with
// ErrNotPublished for unpublished items and ErrNoOptimalTime (no mutation)
// when no slot is available.
func (o *Orchestrator) ReschedulePost(itemID string) (*types.ContentItem, error) {
	item, err := o.content.Get(itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != types.StatusPublished {
		return nil, types.ErrNotPublished
	}

	at, err := o.recommender.RecommendTime(o.cfg.HorizonDays)
	if err != nil {
		return nil, err
	}

	clone := item.CloneForReschedule(at)
	cloneID, err := o.content.Create(clone)
	if err != nil {
		return nil, fmt.Errorf("creating reschedule clone of %s: %w", itemID, err)
	}
	clone.ItemID = cloneID

	rec := &types.EngagementRecord{
		ContentItemID:     cloneID,
		PerformanceRating: types.RatingRescheduled,
		ScheduledTime:     clone.ScheduledTime,
	}
	if err := o.engagement.Upsert(rec); err != nil {
		return nil, fmt.Errorf("upserting engagement record %s: %w", cloneID, err)
	}

	notice := &types.Notice{
		NoticeID:  newNoticeID(),
		ItemID:    itemID,
		Title:     item.Title,
		Message:   fmt.Sprintf("%q underperformed and was rescheduled for %s", item.Title, at.Format(time.RFC3339)),
		CreatedAt: o.clock.Now(),
	}
	if err := o.notices.Append(notice); err != nil {
		return nil, fmt.Errorf("appending reschedule notice for %s: %w", itemID, err)
	}
	return clone, nil
}

// Notices returns and clears all pending reschedule notices.
func (o *Orchestrator) Notices() ([]*types.Notice, error) {
	return o.notices.TakeAll()
}

func newNoticeID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
