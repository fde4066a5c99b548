package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// Compile-time interface check.
var _ types.OptimalTimeRepository = (*timetableStore)(nil)

// timetableStore persists the derived optimal-time table. The table is
// replaced wholesale on every save; ranks preserve slot order within a day.
type timetableStore struct {
	backend *Backend
}

// Load reads the stored table. An empty repository yields an empty table.
func (s *timetableStore) Load() (types.OptimalTimeTable, error) {
	db, err := s.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT day, slot FROM optimal_times ORDER BY day, rank`)
	if err != nil {
		return nil, fmt.Errorf("loading optimal times: %w", err)
	}
	defer rows.Close()

	table := make(types.OptimalTimeTable)
	for rows.Next() {
		var day, slot string
		if err := rows.Scan(&day, &slot); err != nil {
			return nil, fmt.Errorf("scanning optimal time row: %w", err)
		}
		table[day] = append(table[day], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning optimal times: %w", err)
	}
	return table, nil
}

// Save replaces the stored table in one transaction.
func (s *timetableStore) Save(table types.OptimalTimeTable) error {
	db, err := s.backend.conn()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM optimal_times`); err != nil {
		return fmt.Errorf("clearing optimal times: %w", err)
	}
	for _, day := range types.DayNames {
		for rank, slot := range table[day] {
			if _, err := tx.Exec(
				`INSERT INTO optimal_times (day, rank, slot) VALUES (?, ?, ?)`,
				day, rank, slot,
			); err != nil {
				return fmt.Errorf("inserting optimal time %s %s: %w", day, slot, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing optimal times: %w", err)
	}
	return nil
}
