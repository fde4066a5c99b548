package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// significanceBar is the confidence at which a result counts as
// statistically significant. The confidence is a heuristic, not a p-value.
const significanceBar = 95.0

// ABResult is the outcome of comparing a test's two variants.
type ABResult struct {
	Winner      string
	Confidence  float64
	Significant bool
	ScoreA      float64
	ScoreB      float64
	TotalViews  int
}

// ABTestEngine runs A/B tests to completion: it compares variant
// engagement, picks winners, and folds what it learned back into the
// system (timing wins into the optimal-time table, title and platform wins
// into the insights log).
type ABTestEngine struct {
	tests      types.ABTestStore
	content    types.ContentStore
	engagement types.EngagementStore
	repo       types.OptimalTimeRepository
	aggregator *Aggregator
	scorer     *Scorer
	insights   types.InsightLog
	clock      types.Clock
	cfg        types.EngineConfig
}

// NewABTestEngine wires an ABTestEngine.
func NewABTestEngine(tests types.ABTestStore, content types.ContentStore,
	engagement types.EngagementStore, repo types.OptimalTimeRepository,
	aggregator *Aggregator, scorer *Scorer, insights types.InsightLog,
	clock types.Clock, cfg types.EngineConfig,
) *ABTestEngine {
	return &ABTestEngine{
		tests:      tests,
		content:    content,
		engagement: engagement,
		repo:       repo,
		aggregator: aggregator,
		scorer:     scorer,
		insights:   insights,
		clock:      clock,
		cfg:        cfg,
	}
}

// CreateTest validates and persists a new active test.
func (e *ABTestEngine) CreateTest(test *types.ABTest) (string, error) {
	if !types.ValidTestType(test.TestType) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidTestType, test.TestType)
	}
	now := e.clock.Now()
	test.Status = types.TestStatusActive
	test.StartedAt = now
	if test.EndsAt.IsZero() {
		test.EndsAt = now.AddDate(0, 0, 7)
	}
	if test.TestID == "" {
		test.TestID = newTestID()
	}
	return e.tests.Create(test)
}

// CalculateResults compares the two variants' engagement. Missing records
// count as zero. The winner is decided by strict score comparison, tie
// otherwise; confidence scales with total views and score separation,
// capped at 95 and rounded to two decimals.
func (e *ABTestEngine) CalculateResults(test *types.ABTest) (*ABResult, error) {
	recA, err := e.variantRecord(test.VariantA.ContentItemID)
	if err != nil {
		return nil, err
	}
	recB, err := e.variantRecord(test.VariantB.ContentItemID)
	if err != nil {
		return nil, err
	}

	winner := types.WinnerTie
	switch {
	case recA.EngagementScore > recB.EngagementScore:
		winner = types.WinnerA
	case recB.EngagementScore > recA.EngagementScore:
		winner = types.WinnerB
	}

	totalViews := recA.Views + recB.Views
	diff := math.Abs(recA.EngagementScore - recB.EngagementScore)
	confidence := math.Min(significanceBar, float64(totalViews)/100*(diff/10)*10)
	confidence = math.Round(confidence*100) / 100

	return &ABResult{
		Winner:      winner,
		Confidence:  confidence,
		Significant: confidence >= significanceBar,
		ScoreA:      recA.EngagementScore,
		ScoreB:      recB.EngagementScore,
		TotalViews:  totalViews,
	}, nil
}

// variantRecord loads a variant's engagement record, defaulting to zeroed
// metrics when the variant has no record (or no linked item) yet.
func (e *ABTestEngine) variantRecord(contentItemID string) (*types.EngagementRecord, error) {
	if contentItemID == "" {
		return &types.EngagementRecord{}, nil
	}
	rec, err := e.engagement.Get(contentItemID)
	if err != nil {
		if errors.Is(err, types.ErrRecordNotFound) {
			return &types.EngagementRecord{ContentItemID: contentItemID}, nil
		}
		return nil, fmt.Errorf("loading engagement record %s: %w", contentItemID, err)
	}
	return rec, nil
}

// EndTest completes a test. An empty winner lets the metrics decide;
// an explicit winner overrides them. The winning variant is applied.
func (e *ABTestEngine) EndTest(testID, winner string) (*types.ABTest, error) {
	test, err := e.tests.Get(testID)
	if err != nil {
		return nil, err
	}
	result, err := e.CalculateResults(test)
	if err != nil {
		return nil, err
	}
	if winner == "" {
		winner = result.Winner
	}
	if err := test.Complete(winner, result.Confidence, result.Significant, e.clock.Now()); err != nil {
		return nil, err
	}
	if err := e.tests.Update(testID, test); err != nil {
		return nil, fmt.Errorf("updating test %s: %w", testID, err)
	}
	if err := e.applyWinner(test); err != nil {
		return nil, err
	}
	return test, nil
}

// CheckCompletedTests resolves every active test whose end date has
// passed. Tests that cannot differentiate their variants complete as a
// tie. A failure on one test does not block the rest.
func (e *ABTestEngine) CheckCompletedTests() (completed int, errs []error) {
	active, err := e.tests.ListByStatus(types.TestStatusActive)
	if err != nil {
		return 0, []error{fmt.Errorf("listing active tests: %w", err)}
	}
	now := e.clock.Now()
	for _, test := range active {
		if !test.Expired(now) {
			continue
		}
		if _, err := e.EndTest(test.TestID, ""); err != nil {
			errs = append(errs, fmt.Errorf("ending test %s: %w", test.TestID, err))
			continue
		}
		completed++
	}
	return completed, errs
}

// applyWinner folds a completed test's outcome back into the system.
// Ties and inconclusive results apply nothing.
func (e *ABTestEngine) applyWinner(test *types.ABTest) error {
	variant, ok := winningVariant(test)
	if !ok {
		return nil
	}
	switch test.TestType {
	case types.TestTypeTiming:
		return e.applyTimingWin(variant)
	case types.TestTypeTitle:
		if err := e.mergeVariant(test, variant); err != nil {
			return err
		}
		return e.logInsight(test, variant.Title)
	case types.TestTypeContent:
		return e.mergeVariant(test, variant)
	case types.TestTypePlatform:
		return e.logInsight(test, strings.Join(variant.Platforms, ","))
	}
	return nil
}

// applyTimingWin adds the winning variant's slot to the optimal-time table
// for its weekday, keeping the per-day cap by evicting the lowest scorer.
func (e *ABTestEngine) applyTimingWin(variant *types.Variant) error {
	if variant.ScheduledTime == nil {
		return nil
	}
	day := types.DayName(*variant.ScheduledTime)
	hhmm := types.FormatSlot(variant.ScheduledTime.Hour())

	table, err := e.repo.Load()
	if err != nil {
		return fmt.Errorf("loading optimal time table: %w", err)
	}
	if table.Contains(day, hhmm) {
		return nil
	}
	stats, err := e.aggregator.AggregateSlotStats(e.cfg.LookbackDays)
	if err != nil {
		return fmt.Errorf("aggregating slot stats: %w", err)
	}
	merged := e.scorer.MergeTimingWin(table, day, hhmm, stats)
	if err := e.repo.Save(merged); err != nil {
		return fmt.Errorf("saving optimal time table: %w", err)
	}
	return nil
}

// mergeVariant copies the winning variant's tested fields onto the
// canonical item, if the test names one.
func (e *ABTestEngine) mergeVariant(test *types.ABTest, variant *types.Variant) error {
	if test.ContentItemID == "" {
		return nil
	}
	item, err := e.content.Get(test.ContentItemID)
	if err != nil {
		if errors.Is(err, types.ErrItemNotFound) {
			return nil
		}
		return err
	}
	switch test.TestType {
	case types.TestTypeTitle:
		if variant.Title != "" {
			item.Title = variant.Title
		}
	case types.TestTypeContent:
		if variant.Content != "" {
			item.Body = variant.Content
		}
	}
	if err := e.content.Update(item.ItemID, item); err != nil {
		return fmt.Errorf("merging winning variant into %s: %w", item.ItemID, err)
	}
	return nil
}

func (e *ABTestEngine) logInsight(test *types.ABTest, pattern string) error {
	return e.insights.Append(&types.Insight{
		TestID:     test.TestID,
		TestType:   test.TestType,
		Winner:     test.Winner,
		Pattern:    pattern,
		RecordedAt: e.clock.Now(),
	})
}

// winningVariant resolves the test's winner to its variant definition.
func winningVariant(test *types.ABTest) (*types.Variant, bool) {
	switch test.Winner {
	case types.WinnerA:
		return &test.VariantA, true
	case types.WinnerB:
		return &test.VariantB, true
	default:
		return nil, false
	}
}

func newTestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
