package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// sequenceKey holds the last handed-out event sequence. It lives in the kv
// table so numbering keeps increasing after session_events is emptied.
const sequenceKey = "_event_sequence"

// nextSequence increments the stored sequence inside tx and returns the new
// value. The first call returns 1.
func nextSequence(ctx context.Context, tx *sql.Tx) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, 1, ?)
		 ON CONFLICT(key) DO UPDATE
		   SET value = CAST(value AS INTEGER) + 1, updated_at = excluded.updated_at
		 RETURNING CAST(value AS INTEGER)`,
		sequenceKey, time.Now().UnixMilli(),
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
