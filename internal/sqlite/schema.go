// Package sqlite implements the SQLite storage backend for Primetime: the
// content store, engagement store, optimal-time repository, A/B test store,
// and notice store behind one database file.
package sqlite

// Schema DDL for all tables. Timestamps are RFC 3339 strings; nullable
// time columns are NULL until set.
const (
	createContentItems = `CREATE TABLE IF NOT EXISTS content_items (
    item_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    scheduled_time TEXT,
    published_time TEXT,
    uses_optimal_time INTEGER NOT NULL DEFAULT 0,
    rescheduled_from TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createEngagementRecords = `CREATE TABLE IF NOT EXISTS engagement_records (
    content_item_id TEXT PRIMARY KEY,
    views INTEGER NOT NULL DEFAULT 0,
    clicks INTEGER NOT NULL DEFAULT 0,
    shares INTEGER NOT NULL DEFAULT 0,
    comments INTEGER NOT NULL DEFAULT 0,
    engagement_score REAL NOT NULL DEFAULT 0,
    performance_rating TEXT NOT NULL,
    scheduled_time TEXT,
    published_time TEXT,
    updated_at TEXT NOT NULL
);`

	createOptimalTimes = `CREATE TABLE IF NOT EXISTS optimal_times (
    day TEXT NOT NULL,
    rank INTEGER NOT NULL,
    slot TEXT NOT NULL,
    PRIMARY KEY (day, rank)
);`

	createABTests = `CREATE TABLE IF NOT EXISTS ab_tests (
    test_id TEXT PRIMARY KEY,
    test_type TEXT NOT NULL,
    content_item_id TEXT NOT NULL DEFAULT '',
    variant_a TEXT NOT NULL,
    variant_b TEXT NOT NULL,
    status TEXT NOT NULL,
    winner TEXT NOT NULL DEFAULT '',
    confidence REAL NOT NULL DEFAULT 0,
    significant INTEGER NOT NULL DEFAULT 0,
    started_at TEXT NOT NULL,
    ends_at TEXT NOT NULL,
    completed_at TEXT
);`

	createNotices = `CREATE TABLE IF NOT EXISTS notices (
    notice_id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    created_at TEXT NOT NULL
);`
)

// schemaSQL is the combined DDL executed on Attach.
var schemaSQL = createContentItems +
	createEngagementRecords +
	createOptimalTimes +
	createABTests +
	createNotices
