package engine

// In-memory store fakes for engine tests. They mirror the SQLite backend's
// contracts: values are copied on write and read so callers never alias
// stored state, and the sentinel errors match.

import (
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type memContentStore struct {
	items  map[string]*types.ContentItem
	nextID int
}

func newMemContentStore() *memContentStore {
	return &memContentStore{items: make(map[string]*types.ContentItem)}
}

func (s *memContentStore) Create(item *types.ContentItem) (string, error) {
	if item.ItemID == "" {
		s.nextID++
		item.ItemID = fmt.Sprintf("item-%04d", s.nextID)
	}
	if item.Status == "" {
		item.Status = types.StatusDraft
	}
	cp := *item
	s.items[item.ItemID] = &cp
	return item.ItemID, nil
}

func (s *memContentStore) Update(id string, item *types.ContentItem) error {
	if _, ok := s.items[id]; !ok {
		return types.ErrItemNotFound
	}
	cp := *item
	cp.ItemID = id
	s.items[id] = &cp
	return nil
}

func (s *memContentStore) Get(id string) (*types.ContentItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, types.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *memContentStore) ListByStatus(status string) ([]*types.ContentItem, error) {
	var out []*types.ContentItem
	for _, item := range s.items {
		if item.Status == status {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

type memEngagementStore struct {
	records map[string]*types.EngagementRecord
}

func newMemEngagementStore() *memEngagementStore {
	return &memEngagementStore{records: make(map[string]*types.EngagementRecord)}
}

func (s *memEngagementStore) Upsert(rec *types.EngagementRecord) error {
	cp := *rec
	s.records[rec.ContentItemID] = &cp
	return nil
}

func (s *memEngagementStore) Get(contentItemID string) (*types.EngagementRecord, error) {
	rec, ok := s.records[contentItemID]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *memEngagementStore) ListPublishedSince(since time.Time) ([]*types.EngagementRecord, error) {
	var out []*types.EngagementRecord
	for _, rec := range s.records {
		if rec.PublishedTime == nil || rec.PublishedTime.Before(since) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContentItemID < out[j].ContentItemID })
	return out, nil
}

type memTimeRepo struct {
	table types.OptimalTimeTable
	saves int
}

func newMemTimeRepo() *memTimeRepo { return &memTimeRepo{} }

func (r *memTimeRepo) Load() (types.OptimalTimeTable, error) {
	if r.table == nil {
		return types.OptimalTimeTable{}, nil
	}
	return r.table.Clone(), nil
}

func (r *memTimeRepo) Save(table types.OptimalTimeTable) error {
	r.table = table.Clone()
	r.saves++
	return nil
}

type memABTestStore struct {
	tests map[string]*types.ABTest
}

func newMemABTestStore() *memABTestStore {
	return &memABTestStore{tests: make(map[string]*types.ABTest)}
}

func (s *memABTestStore) Create(test *types.ABTest) (string, error) {
	cp := *test
	s.tests[test.TestID] = &cp
	return test.TestID, nil
}

func (s *memABTestStore) Update(id string, test *types.ABTest) error {
	if _, ok := s.tests[id]; !ok {
		return types.ErrTestNotFound
	}
	cp := *test
	cp.TestID = id
	s.tests[id] = &cp
	return nil
}

func (s *memABTestStore) Get(id string) (*types.ABTest, error) {
	test, ok := s.tests[id]
	if !ok {
		return nil, types.ErrTestNotFound
	}
	cp := *test
	return &cp, nil
}

func (s *memABTestStore) ListByStatus(status string) ([]*types.ABTest, error) {
	var out []*types.ABTest
	for _, test := range s.tests {
		if test.Status == status {
			cp := *test
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestID < out[j].TestID })
	return out, nil
}

type memNoticeStore struct {
	pending []*types.Notice
}

func newMemNoticeStore() *memNoticeStore { return &memNoticeStore{} }

func (s *memNoticeStore) Append(notice *types.Notice) error {
	cp := *notice
	s.pending = append(s.pending, &cp)
	return nil
}

func (s *memNoticeStore) TakeAll() ([]*types.Notice, error) {
	out := s.pending
	s.pending = nil
	return out, nil
}

type memInsightLog struct {
	insights []*types.Insight
}

func newMemInsightLog() *memInsightLog { return &memInsightLog{} }

func (l *memInsightLog) Append(insight *types.Insight) error {
	cp := *insight
	l.insights = append(l.insights, &cp)
	return nil
}

// harness wires the full engine over in-memory stores with a fixed clock.
type harness struct {
	clock        *fixedClock
	content      *memContentStore
	engagement   *memEngagementStore
	repo         *memTimeRepo
	notices      *memNoticeStore
	tests        *memABTestStore
	insights     *memInsightLog
	aggregator   *Aggregator
	scorer       *Scorer
	recommender  *Recommender
	orchestrator *Orchestrator
	abtests      *ABTestEngine
	cfg          types.EngineConfig
}

func newHarness(now time.Time) *harness {
	h := &harness{
		clock:      &fixedClock{now: now},
		content:    newMemContentStore(),
		engagement: newMemEngagementStore(),
		repo:       newMemTimeRepo(),
		notices:    newMemNoticeStore(),
		tests:      newMemABTestStore(),
		insights:   newMemInsightLog(),
		scorer:     NewScorer(),
		cfg:        types.DefaultEngineConfig(),
	}
	h.aggregator = NewAggregator(h.engagement, h.clock)
	h.recommender = NewRecommender(h.aggregator, h.scorer, h.repo, nil, h.clock, h.cfg)
	h.orchestrator = NewOrchestrator(h.content, h.engagement, h.notices, h.recommender, h.clock, h.cfg)
	h.abtests = NewABTestEngine(h.tests, h.content, h.engagement, h.repo,
		h.aggregator, h.scorer, h.insights, h.clock, h.cfg)
	return h
}

// seedPublished stores a record with the given score, published at the given
// instant. Views are derived so confidence math has something to work with.
func (h *harness) seedPublished(id string, publishedAt time.Time, score float64, views int) {
	at := publishedAt
	h.engagement.records[id] = &types.EngagementRecord{
		ContentItemID:     id,
		Views:             views,
		EngagementScore:   score,
		PerformanceRating: types.RatingGood,
		PublishedTime:     &at,
	}
}
