package types

import "time"

// A/B test types.
const (
	TestTypeTitle    = "title"
	TestTypeContent  = "content"
	TestTypeTiming   = "timing"
	TestTypePlatform = "platform"
)

// validTestTypes is the set of recognized test type values.
var validTestTypes = map[string]bool{
	TestTypeTitle:    true,
	TestTypeContent:  true,
	TestTypeTiming:   true,
	TestTypePlatform: true,
}

// ValidTestType reports whether t is a recognized test type.
func ValidTestType(t string) bool {
	return validTestTypes[t]
}

// A/B test statuses. The transition active → completed is one-way.
const (
	TestStatusActive    = "active"
	TestStatusCompleted = "completed"
)

// A/B test winners.
const (
	WinnerA            = "A"
	WinnerB            = "B"
	WinnerTie          = "tie"
	WinnerInconclusive = "inconclusive"
)

// Variant is one arm of an A/B test. Each variant is backed by its own
// content item so engagement accrues per arm.
type Variant struct {
	Title         string
	Content       string
	ScheduledTime *time.Time
	Platforms     []string
	ContentItemID string // Linked content item carrying this variant.
}

// ABTest runs two variants of a content item in parallel and resolves a
// winner from their engagement.
type ABTest struct {
	TestID        string // UUID v7, generated on creation.
	TestType      string // One of the TestType constants.
	ContentItemID string // Canonical item the winning variant merges into.
	VariantA      Variant
	VariantB      Variant
	Status        string  // active or completed.
	Winner        string  // Empty until resolved.
	Confidence    float64 // Heuristic 0-95; not a p-value.
	Significant   bool    // True when confidence reached the significance bar.
	StartedAt     time.Time
	EndsAt        time.Time
	CompletedAt   *time.Time
}

// Complete transitions the test to the completed status with the given
// result. Returns ErrTestCompleted if the test already finished.
func (t *ABTest) Complete(winner string, confidence float64, significant bool, at time.Time) error {
	if t.Status == TestStatusCompleted {
		return ErrTestCompleted
	}
	t.Status = TestStatusCompleted
	t.Winner = winner
	t.Confidence = confidence
	t.Significant = significant
	done := at
	t.CompletedAt = &done
	return nil
}

// Expired reports whether the test's end date has passed.
func (t *ABTest) Expired(now time.Time) bool {
	return !t.EndsAt.After(now)
}
