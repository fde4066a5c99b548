package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

func (h *harness) createDraft(t *testing.T, title string) string {
	t.Helper()
	id, err := h.content.Create(&types.ContentItem{Title: title, Body: "body"})
	require.NoError(t, err)
	return id
}

func (h *harness) publish(t *testing.T, id string, at time.Time) {
	t.Helper()
	saved := h.clock.now
	h.clock.now = at.Add(-time.Hour)
	_, err := h.orchestrator.ScheduleAt(id, at)
	require.NoError(t, err)
	h.clock.now = at
	_, err = h.orchestrator.OnPublish(id)
	require.NoError(t, err)
	h.clock.now = saved
}

func TestScheduleAt(t *testing.T) {
	t.Run("schedules a draft in the future", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "announcement")
		at := monday.Add(6 * time.Hour)

		item, err := h.orchestrator.ScheduleAt(id, at)

		require.NoError(t, err)
		assert.Equal(t, types.StatusScheduled, item.Status)
		assert.False(t, item.UsesOptimalTime)
		require.NotNil(t, item.ScheduledTime)
		assert.True(t, at.Equal(*item.ScheduledTime))

		rec, err := h.engagement.Get(id)
		require.NoError(t, err)
		assert.Equal(t, types.RatingScheduled, rec.PerformanceRating)
		require.NotNil(t, rec.ScheduledTime)
		assert.True(t, at.Equal(*rec.ScheduledTime))
	})

	t.Run("rejects past times without mutating", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "announcement")

		_, err := h.orchestrator.ScheduleAt(id, monday.Add(-time.Minute))

		assert.ErrorIs(t, err, types.ErrInvalidTimeSlot)
		item, err := h.content.Get(id)
		require.NoError(t, err)
		assert.Equal(t, types.StatusDraft, item.Status)
	})

	t.Run("unknown item", func(t *testing.T) {
		h := newHarness(monday)

		_, err := h.orchestrator.ScheduleAt("missing", monday.Add(time.Hour))

		assert.ErrorIs(t, err, types.ErrItemNotFound)
	})
}

func TestScheduleOptimally(t *testing.T) {
	t.Run("uses the recommended slot", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "announcement")
		_, err := h.recommender.RefreshTable()
		require.NoError(t, err)

		item, err := h.orchestrator.ScheduleOptimally(id, nil)

		require.NoError(t, err)
		assert.True(t, item.UsesOptimalTime)
		want := time.Date(2026, 1, 7, 19, 0, 0, 0, time.UTC)
		assert.True(t, want.Equal(*item.ScheduledTime), "got %s", item.ScheduledTime)
	})

	t.Run("no table and no fallback fails without mutating", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "announcement")

		_, err := h.orchestrator.ScheduleOptimally(id, nil)

		assert.ErrorIs(t, err, types.ErrNoOptimalTime)
		item, err := h.content.Get(id)
		require.NoError(t, err)
		assert.Equal(t, types.StatusDraft, item.Status)
	})

	t.Run("no table falls back to the given time", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "announcement")
		fallback := monday.Add(3 * time.Hour)

		item, err := h.orchestrator.ScheduleOptimally(id, &fallback)

		require.NoError(t, err)
		assert.Equal(t, types.StatusScheduled, item.Status)
		assert.False(t, item.UsesOptimalTime)
		assert.True(t, fallback.Equal(*item.ScheduledTime))
	})
}

func TestOnPublish(t *testing.T) {
	t.Run("marks the item and record", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "announcement")
		_, err := h.orchestrator.ScheduleAt(id, monday.Add(2*time.Hour))
		require.NoError(t, err)
		h.clock.now = monday.Add(2 * time.Hour)

		item, err := h.orchestrator.OnPublish(id)

		require.NoError(t, err)
		assert.Equal(t, types.StatusPublished, item.Status)
		require.NotNil(t, item.PublishedTime)

		rec, err := h.engagement.Get(id)
		require.NoError(t, err)
		assert.Equal(t, types.RatingPending, rec.PerformanceRating)
		assert.True(t, item.PublishedTime.Equal(*rec.PublishedTime))
	})

	t.Run("drafts cannot be published", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "announcement")

		_, err := h.orchestrator.OnPublish(id)

		assert.ErrorIs(t, err, types.ErrInvalidTransition)
	})
}

func TestRecordEngagement(t *testing.T) {
	h := newHarness(monday)
	id := h.createDraft(t, "announcement")

	rec, err := h.orchestrator.RecordEngagement(id, 100, 10, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 30, rec.EngagementScore, 1e-9) // 10 + 20

	rec, err = h.orchestrator.RecordEngagement(id, 0, 0, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Views, "deltas accumulate")
	assert.Equal(t, 5, rec.Shares)
	assert.InDelta(t, 55, rec.EngagementScore, 1e-9)

	_, err = h.orchestrator.RecordEngagement("missing", 1, 0, 0, 0)
	assert.ErrorIs(t, err, types.ErrItemNotFound)
}

func TestCheckPerformance(t *testing.T) {
	h := newHarness(monday)

	fresh := h.createDraft(t, "fresh")
	h.publish(t, fresh, monday.Add(-2*time.Hour))
	_, err := h.orchestrator.RecordEngagement(fresh, 100, 10, 5, 0)
	require.NoError(t, err)

	old := h.createDraft(t, "old")
	h.publish(t, old, monday.Add(-25*time.Hour))

	rated, err := h.orchestrator.CheckPerformance()

	require.NoError(t, err)
	require.Len(t, rated, 1, "only the fresh pending record is rated")
	assert.Equal(t, fresh, rated[0].ContentItemID)
	assert.InDelta(t, 55, rated[0].EngagementScore, 1e-9)
	assert.Equal(t, types.RatingFair, rated[0].PerformanceRating)

	oldRec, err := h.engagement.Get(old)
	require.NoError(t, err)
	assert.Equal(t, types.RatingPending, oldRec.PerformanceRating, "outside the window, untouched")

	// A second pass finds nothing pending.
	rated, err = h.orchestrator.CheckPerformance()
	require.NoError(t, err)
	assert.Empty(t, rated)
}

func TestReschedulePost(t *testing.T) {
	t.Run("unpublished items are rejected", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "draft")

		_, err := h.orchestrator.ReschedulePost(id)

		assert.ErrorIs(t, err, types.ErrNotPublished)
	})

	t.Run("clones the item and leaves the original alone", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "flop")
		h.publish(t, id, monday.Add(-2*time.Hour))
		_, err := h.recommender.RefreshTable()
		require.NoError(t, err)

		clone, err := h.orchestrator.ReschedulePost(id)

		require.NoError(t, err)
		assert.NotEqual(t, id, clone.ItemID)
		assert.Equal(t, id, clone.RescheduledFrom)
		assert.Equal(t, "flop", clone.Title)
		assert.Equal(t, types.StatusScheduled, clone.Status)
		assert.True(t, clone.UsesOptimalTime)

		original, err := h.content.Get(id)
		require.NoError(t, err)
		assert.Equal(t, types.StatusPublished, original.Status)

		cloneRec, err := h.engagement.Get(clone.ItemID)
		require.NoError(t, err)
		assert.Equal(t, types.RatingRescheduled, cloneRec.PerformanceRating)

		notices, err := h.orchestrator.Notices()
		require.NoError(t, err)
		require.Len(t, notices, 1)
		assert.Equal(t, id, notices[0].ItemID)
		assert.Contains(t, notices[0].Message, "flop")

		// Notices are consumed on read.
		notices, err = h.orchestrator.Notices()
		require.NoError(t, err)
		assert.Empty(t, notices)
	})

	t.Run("no optimal time leaves everything untouched", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "flop")
		h.publish(t, id, monday.Add(-2*time.Hour))

		_, err := h.orchestrator.ReschedulePost(id)

		assert.ErrorIs(t, err, types.ErrNoOptimalTime)
		scheduled, err := h.content.ListByStatus(types.StatusScheduled)
		require.NoError(t, err)
		assert.Empty(t, scheduled)
	})
}

func TestReconcileSchedule(t *testing.T) {
	t.Run("rates and reschedules a poor performer", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "flop")
		h.publish(t, id, monday.Add(-2*time.Hour))
		_, err := h.orchestrator.RecordEngagement(id, 10, 0, 0, 0) // score 1, poor
		require.NoError(t, err)

		report, err := h.orchestrator.ReconcileSchedule()

		require.NoError(t, err)
		assert.Equal(t, 0, report.Resnapped)
		assert.Equal(t, 1, report.Rated)
		assert.Equal(t, 1, report.Rescheduled)
		assert.Empty(t, report.Errors)

		scheduled, err := h.content.ListByStatus(types.StatusScheduled)
		require.NoError(t, err)
		require.Len(t, scheduled, 1)
		assert.Equal(t, id, scheduled[0].RescheduledFrom)

		rec, err := h.engagement.Get(id)
		require.NoError(t, err)
		assert.Equal(t, types.RatingPoor, rec.PerformanceRating)
	})

	t.Run("a second run with no new data changes nothing", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "flop")
		h.publish(t, id, monday.Add(-2*time.Hour))
		_, err := h.orchestrator.RecordEngagement(id, 10, 0, 0, 0)
		require.NoError(t, err)

		_, err = h.orchestrator.ReconcileSchedule()
		require.NoError(t, err)

		report, err := h.orchestrator.ReconcileSchedule()

		require.NoError(t, err)
		assert.Equal(t, 0, report.Resnapped)
		assert.Equal(t, 0, report.Rated)
		assert.Equal(t, 0, report.Rescheduled)

		scheduled, err := h.content.ListByStatus(types.StatusScheduled)
		require.NoError(t, err)
		assert.Len(t, scheduled, 1, "no second clone")
	})

	t.Run("a replayed publish does not re-rate or re-clone", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "flop")
		h.publish(t, id, monday.Add(-2*time.Hour))
		_, err := h.orchestrator.RecordEngagement(id, 10, 0, 0, 0)
		require.NoError(t, err)

		_, err = h.orchestrator.ReconcileSchedule()
		require.NoError(t, err)

		// The publish event is delivered a second time.
		_, err = h.orchestrator.OnPublish(id)
		require.NoError(t, err)

		rec, err := h.engagement.Get(id)
		require.NoError(t, err)
		assert.Equal(t, types.RatingPoor, rec.PerformanceRating, "rating survives the replay")

		report, err := h.orchestrator.ReconcileSchedule()

		require.NoError(t, err)
		assert.Equal(t, 0, report.Rated)
		assert.Equal(t, 0, report.Rescheduled)

		scheduled, err := h.content.ListByStatus(types.StatusScheduled)
		require.NoError(t, err)
		assert.Len(t, scheduled, 1, "no second clone")
	})

	t.Run("well performing items are not rescheduled", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "hit")
		h.publish(t, id, monday.Add(-2*time.Hour))
		_, err := h.orchestrator.RecordEngagement(id, 1000, 20, 10, 10) // score 100
		require.NoError(t, err)

		report, err := h.orchestrator.ReconcileSchedule()

		require.NoError(t, err)
		assert.Equal(t, 1, report.Rated)
		assert.Equal(t, 0, report.Rescheduled)

		rec, err := h.engagement.Get(id)
		require.NoError(t, err)
		assert.Equal(t, types.RatingExcellent, rec.PerformanceRating)
	})

	t.Run("resnaps scheduled optimal-time items to fresh data", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "announcement")
		_, err := h.recommender.RefreshTable()
		require.NoError(t, err)
		_, err = h.orchestrator.ScheduleOptimally(id, nil)
		require.NoError(t, err)

		// Strong Tuesday 14:00 history arrives after scheduling.
		tue := time.Date(2025, 12, 30, 14, 0, 0, 0, time.UTC)
		h.seedPublished("hist-1", tue, 85, 100)
		h.seedPublished("hist-2", tue.Add(30*time.Minute), 85, 100)

		report, err := h.orchestrator.ReconcileSchedule()

		require.NoError(t, err)
		assert.Equal(t, 1, report.Resnapped)

		item, err := h.content.Get(id)
		require.NoError(t, err)
		want := time.Date(2026, 1, 6, 14, 0, 0, 0, time.UTC)
		assert.True(t, want.Equal(*item.ScheduledTime), "got %s", item.ScheduledTime)
	})

	t.Run("manually scheduled items are never resnapped", func(t *testing.T) {
		h := newHarness(monday)
		id := h.createDraft(t, "announcement")
		at := monday.Add(30 * time.Minute)
		_, err := h.orchestrator.ScheduleAt(id, at)
		require.NoError(t, err)

		report, err := h.orchestrator.ReconcileSchedule()

		require.NoError(t, err)
		assert.Equal(t, 0, report.Resnapped)
		item, err := h.content.Get(id)
		require.NoError(t, err)
		assert.True(t, at.Equal(*item.ScheduledTime))
	})
}
