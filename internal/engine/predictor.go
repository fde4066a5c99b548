package engine

import (
	"math"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// SlotFeatures are the inputs a predictor sees for one candidate slot.
type SlotFeatures struct {
	Day   string
	Hour  int
	Stats map[types.SlotKey]types.SlotStat
}

// Prediction is a predictor's output: an engagement score estimate and a
// 0-1 confidence in it.
type Prediction struct {
	Score      float64
	Confidence float64
}

// PerformancePredictor estimates slot performance. The default strategy is
// the deterministic multiplier heuristic; a trained model can be swapped in
// without touching the recommender or orchestrator.
type PerformancePredictor interface {
	Predict(f SlotFeatures) Prediction
}

// heuristicPredictor scores via the Scorer and reports confidence as the
// normalized distance of the score above the default base, clamped to [0, 1].
type heuristicPredictor struct {
	scorer *Scorer
}

// NewHeuristicPredictor returns the default heuristic prediction strategy.
func NewHeuristicPredictor(scorer *Scorer) PerformancePredictor {
	return &heuristicPredictor{scorer: scorer}
}

func (p *heuristicPredictor) Predict(f SlotFeatures) Prediction {
	score := p.scorer.ScoreSlot(f.Day, f.Hour, f.Stats)
	conf := (score - defaultBaseScore) / defaultBaseScore
	conf = math.Max(0, math.Min(1, conf))
	return Prediction{Score: score, Confidence: conf}
}
