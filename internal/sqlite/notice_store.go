package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// Compile-time interface check.
var _ types.NoticeStore = (*noticeStore)(nil)

// noticeStore persists one-shot reschedule notices. Notices are consumed
// on read: TakeAll returns and deletes in the same transaction.
type noticeStore struct {
	backend *Backend
}

// Append stores a notice. An empty NoticeID gets a generated UUID v7.
func (s *noticeStore) Append(notice *types.Notice) error {
	db, err := s.backend.conn()
	if err != nil {
		return err
	}
	if notice.NoticeID == "" {
		notice.NoticeID = generateUUID()
	}
	_, err = db.Exec(
		`INSERT INTO notices (notice_id, item_id, title, message, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		notice.NoticeID, notice.ItemID, notice.Title, notice.Message,
		formatTime(notice.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting notice: %w", err)
	}
	return nil
}

// TakeAll returns all pending notices oldest first and clears them.
func (s *noticeStore) TakeAll() ([]*types.Notice, error) {
	db, err := s.backend.conn()
	if err != nil {
		return nil, err
	}
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		`SELECT notice_id, item_id, title, message, created_at FROM notices ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing notices: %w", err)
	}

	var notices []*types.Notice
	for rows.Next() {
		var (
			n          types.Notice
			createdStr string
		)
		if err := rows.Scan(&n.NoticeID, &n.ItemID, &n.Title, &n.Message, &createdStr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning notice: %w", err)
		}
		if n.CreatedAt, err = parseTime(createdStr); err != nil {
			rows.Close()
			return nil, err
		}
		notices = append(notices, &n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("scanning notices: %w", err)
	}
	rows.Close()

	if _, err := tx.Exec(`DELETE FROM notices`); err != nil {
		return nil, fmt.Errorf("clearing notices: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing notice take: %w", err)
	}
	return notices, nil
}
