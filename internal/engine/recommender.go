package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// maxRecommendations bounds the ranked list returned for an item.
const maxRecommendations = 5

// Recommendation is one ranked publish-time candidate.
type Recommendation struct {
	Time       time.Time
	Score      float64
	Confidence float64 // 0-1, from the performance predictor.
}

// Recommender picks future publish times from the optimal-time table.
type Recommender struct {
	aggregator *Aggregator
	scorer     *Scorer
	repo       types.OptimalTimeRepository
	predictor  PerformancePredictor
	clock      types.Clock
	cfg        types.EngineConfig
}

// NewRecommender wires a Recommender. A nil predictor selects the default
// heuristic strategy.
func NewRecommender(aggregator *Aggregator, scorer *Scorer, repo types.OptimalTimeRepository,
	predictor PerformancePredictor, clock types.Clock, cfg types.EngineConfig,
) *Recommender {
	if predictor == nil {
		predictor = NewHeuristicPredictor(scorer)
	}
	return &Recommender{
		aggregator: aggregator,
		scorer:     scorer,
		repo:       repo,
		predictor:  predictor,
		clock:      clock,
		cfg:        cfg,
	}
}

// RefreshTable recomputes the optimal-time table from the full engagement
// history and stores it wholesale, returning the new table.
func (r *Recommender) RefreshTable() (types.OptimalTimeTable, error) {
	stats, err := r.aggregator.AggregateSlotStats(r.cfg.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("aggregating slot stats: %w", err)
	}
	table := r.scorer.ComputeOptimalTimeTable(stats)
	if err := r.repo.Save(table); err != nil {
		return nil, fmt.Errorf("saving optimal time table: %w", err)
	}
	return table, nil
}

// RecommendTime returns the single best publish time within the next
// horizonDays. Same-day slots already past are skipped, so the result is
// never before the clock. Ties keep the first candidate in enumeration
// order (day 0 → horizon, then list order within a day). Returns
// ErrNoOptimalTime when no table data exists or every slot lies in the past.
func (r *Recommender) RecommendTime(horizonDays int) (time.Time, error) {
	table, err := r.repo.Load()
	if err != nil {
		return time.Time{}, fmt.Errorf("loading optimal time table: %w", err)
	}
	if len(table) == 0 {
		return time.Time{}, types.ErrNoOptimalTime
	}
	stats, err := r.aggregator.AggregateSlotStats(r.cfg.LookbackDays)
	if err != nil {
		return time.Time{}, fmt.Errorf("aggregating slot stats: %w", err)
	}

	var (
		best      time.Time
		bestScore float64
		found     bool
	)
	r.enumerate(table, horizonDays, func(candidate time.Time, hour int, day string) {
		score := r.scorer.ScoreSlot(day, hour, stats)
		if !found || score > bestScore {
			best = candidate
			bestScore = score
			found = true
		}
	})
	if !found {
		return time.Time{}, types.ErrNoOptimalTime
	}
	return best, nil
}

// RecommendTimes returns up to maxRecommendations candidates over the
// horizon, ranked by predictor confidence descending; equal-confidence
// candidates rank by the earlier time. Table order within a day is
// score-ranked, so the tie-break must compare times explicitly.
func (r *Recommender) RecommendTimes(horizonDays int) ([]Recommendation, error) {
	table, err := r.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("loading optimal time table: %w", err)
	}
	if len(table) == 0 {
		return nil, types.ErrNoOptimalTime
	}
	stats, err := r.aggregator.AggregateSlotStats(r.cfg.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("aggregating slot stats: %w", err)
	}

	var recs []Recommendation
	r.enumerate(table, horizonDays, func(candidate time.Time, hour int, day string) {
		p := r.predictor.Predict(SlotFeatures{Day: day, Hour: hour, Stats: stats})
		recs = append(recs, Recommendation{Time: candidate, Score: p.Score, Confidence: p.Confidence})
	})
	if len(recs) == 0 {
		return nil, types.ErrNoOptimalTime
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Confidence != recs[j].Confidence {
			return recs[i].Confidence > recs[j].Confidence
		}
		return recs[i].Time.Before(recs[j].Time)
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs, nil
}

// BestTimeSlot is one ranked historical slot for a day.
type BestTimeSlot struct {
	Hour        int
	AvgScore    float64
	SampleCount int
}

// BestTimes returns, per day, the top slots by historical average over the
// best-times lookback window. Only buckets with enough samples appear.
func (r *Recommender) BestTimes() (map[string][]BestTimeSlot, error) {
	stats, err := r.aggregator.AggregateSlotStats(r.cfg.BestTimesLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("aggregating slot stats: %w", err)
	}

	out := make(map[string][]BestTimeSlot, len(types.DayNames))
	for _, day := range types.DayNames {
		var slots []BestTimeSlot
		for hour := 0; hour < 24; hour++ {
			st, ok := stats[types.SlotKey{Day: day, Hour: hour}]
			if !ok || st.SampleCount < types.MinSlotSamples {
				continue
			}
			slots = append(slots, BestTimeSlot{
				Hour:        hour,
				AvgScore:    st.AvgEngagementScore,
				SampleCount: st.SampleCount,
			})
		}
		sort.SliceStable(slots, func(i, j int) bool {
			if slots[i].AvgScore != slots[j].AvgScore {
				return slots[i].AvgScore > slots[j].AvgScore
			}
			return slots[i].Hour < slots[j].Hour
		})
		if len(slots) > types.SlotsPerDay {
			slots = slots[:types.SlotsPerDay]
		}
		if len(slots) > 0 {
			out[day] = slots
		}
	}
	return out, nil
}

// enumerate walks the horizon day by day and yields every future candidate
// slot in stable order.
func (r *Recommender) enumerate(table types.OptimalTimeTable, horizonDays int, visit func(candidate time.Time, hour int, day string)) {
	now := r.clock.Now()
	for i := 0; i < horizonDays; i++ {
		date := now.AddDate(0, 0, i)
		day := types.DayName(date)
		for _, slot := range table[day] {
			hour, minute, err := types.ParseSlot(slot)
			if err != nil {
				continue
			}
			candidate := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, now.Location())
			if i == 0 && !candidate.After(now) {
				continue
			}
			visit(candidate, hour, day)
		}
	}
}
