package engine

import (
	"fmt"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// Aggregator reduces raw engagement records into slot-level statistics.
// It is a pure read: no record is mutated.
type Aggregator struct {
	engagement types.EngagementStore
	clock      types.Clock
}

// NewAggregator creates an Aggregator over the given engagement store.
func NewAggregator(engagement types.EngagementStore, clock types.Clock) *Aggregator {
	return &Aggregator{engagement: engagement, clock: clock}
}

// AggregateSlotStats groups engagement records published within the last
// lookbackDays by (weekday, hour) and returns the mean engagement score and
// sample count per bucket. Records without a publish time or with a zero
// score carry no signal and are skipped. Buckets below
// types.MinSlotSamples are returned as-is; consumers treat them as no data.
func (a *Aggregator) AggregateSlotStats(lookbackDays int) (map[types.SlotKey]types.SlotStat, error) {
	since := a.clock.Now().AddDate(0, 0, -lookbackDays)
	records, err := a.engagement.ListPublishedSince(since)
	if err != nil {
		return nil, fmt.Errorf("listing engagement records: %w", err)
	}

	type bucket struct {
		total float64
		count int
	}
	buckets := make(map[types.SlotKey]bucket)
	for _, rec := range records {
		if rec.PublishedTime == nil || rec.EngagementScore <= 0 {
			continue
		}
		key := types.SlotKey{
			Day:  types.DayName(*rec.PublishedTime),
			Hour: rec.PublishedTime.Hour(),
		}
		b := buckets[key]
		b.total += rec.EngagementScore
		b.count++
		buckets[key] = b
	}

	stats := make(map[types.SlotKey]types.SlotStat, len(buckets))
	for key, b := range buckets {
		stats[key] = types.SlotStat{
			AvgEngagementScore: b.total / float64(b.count),
			SampleCount:        b.count,
		}
	}
	return stats, nil
}
