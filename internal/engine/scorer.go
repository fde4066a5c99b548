package engine

import (
	"sort"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// defaultBaseScore substitutes for a slot with too little history.
const defaultBaseScore = 50.0

// minTableScore is the floor a bucket's average must reach before it can
// enter the optimal-time table on its own.
const minTableScore = 60.0

// dayMultipliers shape the weekly engagement curve. Fixed, not learned.
var dayMultipliers = map[string]float64{
	"monday":    0.8,
	"tuesday":   1.0,
	"wednesday": 1.1,
	"thursday":  1.0,
	"friday":    0.9,
	"saturday":  0.7,
	"sunday":    0.6,
}

// hourMultipliers shape the daily engagement curve for hours 6-23, peaking
// mid-afternoon and evening. Hours outside the table use 1.0.
var hourMultipliers = map[int]float64{
	6:  0.5,
	7:  0.6,
	8:  0.8,
	9:  1.0,
	10: 1.1,
	11: 1.2,
	12: 1.25,
	13: 1.2,
	14: 1.3,
	15: 1.2,
	16: 1.1,
	17: 1.15,
	18: 1.25,
	19: 1.4,
	20: 1.3,
	21: 1.1,
	22: 0.8,
	23: 0.6,
}

// Scorer converts slot statistics plus the fixed day/hour multipliers into
// scores, and derives the optimal-time table.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer { return &Scorer{} }

// ScoreSlot scores a (day, hour) slot: the bucket average (or the default
// base when fewer than types.MinSlotSamples observations exist) shaped by
// the fixed day and hour multipliers.
func (s *Scorer) ScoreSlot(day string, hour int, stats map[types.SlotKey]types.SlotStat) float64 {
	base := defaultBaseScore
	if st, ok := stats[types.SlotKey{Day: day, Hour: hour}]; ok && st.SampleCount >= types.MinSlotSamples {
		base = st.AvgEngagementScore
	}
	return base * dayMultiplier(day) * hourMultiplier(hour)
}

func dayMultiplier(day string) float64 {
	if m, ok := dayMultipliers[day]; ok {
		return m
	}
	return 1.0
}

func hourMultiplier(hour int) float64 {
	if m, ok := hourMultipliers[hour]; ok {
		return m
	}
	return 1.0
}

// ComputeOptimalTimeTable derives the full optimal-time table from slot
// statistics. Per day, "hh:00" slots whose bucket has at least
// types.MinSlotSamples observations and an average of minTableScore or more
// are ranked by average descending; the top three win. Days with fewer than
// three such slots are backfilled from types.DefaultSlots, skipping
// duplicates, so every day ends with exactly types.SlotsPerDay entries.
func (s *Scorer) ComputeOptimalTimeTable(stats map[types.SlotKey]types.SlotStat) types.OptimalTimeTable {
	table := make(types.OptimalTimeTable, len(types.DayNames))
	for _, day := range types.DayNames {
		type candidate struct {
			hour  int
			score float64
		}
		var candidates []candidate
		for hour := 0; hour < 24; hour++ {
			st, ok := stats[types.SlotKey{Day: day, Hour: hour}]
			if !ok || st.SampleCount < types.MinSlotSamples || st.AvgEngagementScore < minTableScore {
				continue
			}
			candidates = append(candidates, candidate{hour: hour, score: st.AvgEngagementScore})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].score != candidates[j].score {
				return candidates[i].score > candidates[j].score
			}
			return candidates[i].hour < candidates[j].hour
		})
		if len(candidates) > types.SlotsPerDay {
			candidates = candidates[:types.SlotsPerDay]
		}

		slots := make([]string, 0, types.SlotsPerDay)
		for _, c := range candidates {
			slots = append(slots, types.FormatSlot(c.hour))
		}
		for _, def := range types.DefaultSlots {
			if len(slots) >= types.SlotsPerDay {
				break
			}
			if !containsSlot(slots, def) {
				slots = append(slots, def)
			}
		}
		table[day] = slots
	}
	return table
}

// MergeTimingWin folds a winning A/B timing slot into the table for the
// given day. The day stays capped at types.SlotsPerDay entries: all
// candidates are re-scored with ScoreSlot and the lowest scorer is evicted.
// A slot already listed leaves the table unchanged.
func (s *Scorer) MergeTimingWin(table types.OptimalTimeTable, day, hhmm string, stats map[types.SlotKey]types.SlotStat) types.OptimalTimeTable {
	if table.Contains(day, hhmm) {
		return table
	}
	out := table.Clone()
	slots := append(out[day], hhmm)

	type scored struct {
		slot  string
		score float64
	}
	ranked := make([]scored, 0, len(slots))
	for _, slot := range slots {
		hour, _, err := types.ParseSlot(slot)
		if err != nil {
			continue
		}
		ranked = append(ranked, scored{slot: slot, score: s.ScoreSlot(day, hour, stats)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > types.SlotsPerDay {
		ranked = ranked[:types.SlotsPerDay]
	}

	merged := make([]string, 0, len(ranked))
	for _, r := range ranked {
		merged = append(merged, r.slot)
	}
	out[day] = merged
	return out
}

func containsSlot(slots []string, hhmm string) bool {
	for _, s := range slots {
		if s == hhmm {
			return true
		}
	}
	return false
}
