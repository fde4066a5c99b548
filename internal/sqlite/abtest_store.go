package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// Compile-time interface check.
var _ types.ABTestStore = (*abTestStore)(nil)

// abTestStore persists A/B tests. Variants are stored as JSON columns;
// the queryable fields (type, status, winner, timestamps) are columns of
// their own.
type abTestStore struct {
	backend *Backend
}

const abTestColumns = `test_id, test_type, content_item_id, variant_a, variant_b,
	status, winner, confidence, significant, started_at, ends_at, completed_at`

// Create persists a new test. An empty TestID gets a generated UUID v7.
func (s *abTestStore) Create(test *types.ABTest) (string, error) {
	db, err := s.backend.conn()
	if err != nil {
		return "", err
	}
	if !types.ValidTestType(test.TestType) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidTestType, test.TestType)
	}
	if test.TestID == "" {
		test.TestID = generateUUID()
	}
	if test.Status == "" {
		test.Status = types.TestStatusActive
	}

	variantA, variantB, err := marshalVariants(test)
	if err != nil {
		return "", err
	}
	_, err = db.Exec(
		`INSERT INTO ab_tests (`+abTestColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		test.TestID, test.TestType, test.ContentItemID, variantA, variantB,
		test.Status, test.Winner, test.Confidence, boolToInt(test.Significant),
		formatTime(test.StartedAt), formatTime(test.EndsAt),
		formatTimePtr(test.CompletedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting ab test: %w", err)
	}
	return test.TestID, nil
}

// Update overwrites the stored test.
// Returns ErrTestNotFound when the row does not exist.
func (s *abTestStore) Update(id string, test *types.ABTest) error {
	db, err := s.backend.conn()
	if err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}
	variantA, variantB, err := marshalVariants(test)
	if err != nil {
		return err
	}
	res, err := db.Exec(
		`UPDATE ab_tests SET test_type = ?, content_item_id = ?, variant_a = ?,
		 variant_b = ?, status = ?, winner = ?, confidence = ?, significant = ?,
		 started_at = ?, ends_at = ?, completed_at = ?
		 WHERE test_id = ?`,
		test.TestType, test.ContentItemID, variantA, variantB,
		test.Status, test.Winner, test.Confidence, boolToInt(test.Significant),
		formatTime(test.StartedAt), formatTime(test.EndsAt),
		formatTimePtr(test.CompletedAt), id,
	)
	if err != nil {
		return fmt.Errorf("updating ab test %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrTestNotFound
	}
	return nil
}

// Get retrieves a test by ID.
func (s *abTestStore) Get(id string) (*types.ABTest, error) {
	db, err := s.backend.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := db.QueryRow(`SELECT `+abTestColumns+` FROM ab_tests WHERE test_id = ?`, id)
	test, err := hydrateABTest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrTestNotFound
		}
		return nil, fmt.Errorf("getting ab test %s: %w", id, err)
	}
	return test, nil
}

// ListByStatus returns all tests with the given status, oldest first.
func (s *abTestStore) ListByStatus(status string) ([]*types.ABTest, error) {
	db, err := s.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		`SELECT `+abTestColumns+` FROM ab_tests WHERE status = ? ORDER BY started_at`, status)
	if err != nil {
		return nil, fmt.Errorf("listing ab tests: %w", err)
	}
	defer rows.Close()

	var tests []*types.ABTest
	for rows.Next() {
		test, err := hydrateABTest(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating ab test: %w", err)
		}
		tests = append(tests, test)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning ab tests: %w", err)
	}
	return tests, nil
}

func marshalVariants(test *types.ABTest) (string, string, error) {
	variantA, err := json.Marshal(test.VariantA)
	if err != nil {
		return "", "", fmt.Errorf("marshaling variant A: %w", err)
	}
	variantB, err := json.Marshal(test.VariantB)
	if err != nil {
		return "", "", fmt.Errorf("marshaling variant B: %w", err)
	}
	return string(variantA), string(variantB), nil
}

// hydrateABTest scans one row into an ABTest.
func hydrateABTest(row rowScanner) (*types.ABTest, error) {
	var (
		test                types.ABTest
		variantA, variantB  string
		significant         int
		startedStr, endsStr string
		completed           sql.NullString
	)
	err := row.Scan(&test.TestID, &test.TestType, &test.ContentItemID,
		&variantA, &variantB, &test.Status, &test.Winner, &test.Confidence,
		&significant, &startedStr, &endsStr, &completed)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(variantA), &test.VariantA); err != nil {
		return nil, fmt.Errorf("unmarshaling variant A: %w", err)
	}
	if err := json.Unmarshal([]byte(variantB), &test.VariantB); err != nil {
		return nil, fmt.Errorf("unmarshaling variant B: %w", err)
	}
	if test.StartedAt, err = parseTime(startedStr); err != nil {
		return nil, err
	}
	if test.EndsAt, err = parseTime(endsStr); err != nil {
		return nil, err
	}
	if test.CompletedAt, err = parseTimePtr(completed); err != nil {
		return nil, err
	}
	test.Significant = significant != 0
	return &test, nil
}
