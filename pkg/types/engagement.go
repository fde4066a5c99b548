package types

import (
	"math"
	"time"
)

// Performance ratings. A record starts at "scheduled" when its item is
// scheduled, moves to "pending" on publish, and is rated by the reconcile
// job. "rescheduled" marks the fresh record of a reschedule clone.
const (
	RatingPending     = "pending"
	RatingScheduled   = "scheduled"
	RatingRescheduled = "rescheduled"
	RatingExcellent   = "excellent"
	RatingGood        = "good"
	RatingFair        = "fair"
	RatingPoor        = "poor"
)

// validRatings is the set of recognized performance rating values.
var validRatings = map[string]bool{
	RatingPending:     true,
	RatingScheduled:   true,
	RatingRescheduled: true,
	RatingExcellent:   true,
	RatingGood:        true,
	RatingFair:        true,
	RatingPoor:        true,
}

// ValidRating reports whether r is a recognized performance rating.
func ValidRating(r string) bool {
	return validRatings[r]
}

// EngagementRecord holds the raw engagement counters and derived score for
// one content item. One record per item at a time; a reschedule clone gets
// its own fresh record and the original's stays historical.
type EngagementRecord struct {
	ContentItemID     string
	Views             int
	Clicks            int
	Shares            int
	Comments          int
	EngagementScore   float64 // Derived 0-100 composite; never set directly.
	PerformanceRating string  // One of the Rating constants.
	ScheduledTime     *time.Time
	PublishedTime     *time.Time
	UpdatedAt         time.Time
}

// Engagement score weights and per-metric caps. Each metric contributes a
// capped sub-score; the total is capped at 100.
const (
	viewWeight    = 0.1
	clickWeight   = 2.0
	shareWeight   = 5.0
	commentWeight = 3.0

	viewCap    = 30.0
	clickCap   = 25.0
	shareCap   = 25.0
	commentCap = 20.0

	scoreCap = 100.0
)

// ComputeEngagementScore derives the 0-100 composite score from raw
// counters using the fixed weighting formula.
func ComputeEngagementScore(views, clicks, shares, comments int) float64 {
	score := math.Min(float64(views)*viewWeight, viewCap) +
		math.Min(float64(clicks)*clickWeight, clickCap) +
		math.Min(float64(shares)*shareWeight, shareCap) +
		math.Min(float64(comments)*commentWeight, commentCap)
	return math.Min(score, scoreCap)
}

// Rating thresholds over the engagement score.
const (
	excellentThreshold = 80.0
	goodThreshold      = 60.0
	fairThreshold      = 40.0
)

// RatingForScore maps an engagement score to a performance rating.
func RatingForScore(score float64) string {
	switch {
	case score >= excellentThreshold:
		return RatingExcellent
	case score >= goodThreshold:
		return RatingGood
	case score >= fairThreshold:
		return RatingFair
	default:
		return RatingPoor
	}
}

// Recalculate recomputes the derived engagement score from the counters.
func (r *EngagementRecord) Recalculate() {
	r.EngagementScore = ComputeEngagementScore(r.Views, r.Clicks, r.Shares, r.Comments)
}
