package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

func TestHeuristicPredictor(t *testing.T) {
	p := NewHeuristicPredictor(NewScorer())

	t.Run("confidence scales above the base score", func(t *testing.T) {
		// Wednesday 19:00 on defaults scores 77.
		got := p.Predict(SlotFeatures{Day: "wednesday", Hour: 19})

		assert.InDelta(t, 77, got.Score, 1e-9)
		assert.InDelta(t, 0.54, got.Confidence, 1e-9)
	})

	t.Run("scores at or below the base clamp to zero", func(t *testing.T) {
		// Sunday 06:00 on defaults scores 15.
		got := p.Predict(SlotFeatures{Day: "sunday", Hour: 6})

		assert.InDelta(t, 15, got.Score, 1e-9)
		assert.Zero(t, got.Confidence)
	})

	t.Run("strong history clamps to one", func(t *testing.T) {
		stats := map[types.SlotKey]types.SlotStat{
			{Day: "wednesday", Hour: 19}: {AvgEngagementScore: 100, SampleCount: 10},
		}

		got := p.Predict(SlotFeatures{Day: "wednesday", Hour: 19, Stats: stats})

		assert.Equal(t, 1.0, got.Confidence)
	})
}
