package types

import "time"

// Notice is a one-shot user-facing message emitted when the reconcile job
// reschedules an underperforming item. Notices are consumed on read.
type Notice struct {
	NoticeID  string // UUID v7, generated on append.
	ItemID    string // Original (underperforming) content item.
	Title     string // Original item title, for display.
	Message   string
	CreatedAt time.Time
}

// Insight is an append-only record of a resolved A/B pattern: the winning
// title pattern or platform extracted when a test completes.
type Insight struct {
	TestID     string
	TestType   string
	Winner     string
	Pattern    string // Winning title for title tests, platform list for platform tests.
	RecordedAt time.Time
}
