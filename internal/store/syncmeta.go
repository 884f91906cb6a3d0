package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/galihvsx/better-commuline-api/internal/domain"
)

// AppendSyncStatus appends one row to the sync status trail. There is no
// update-in-place; every phase transition is a new row.
func (db *DB) AppendSyncStatus(status domain.SyncStatus, ts time.Time, errMsg *string) error {
	_, err := db.Exec(`INSERT INTO sync_metadata (ts, status, error, created_at) VALUES (?, ?, ?, ?)`,
		ts.UTC(), status, errMsg, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to append sync status: %w", err)
	}
	return nil
}

// LatestSyncStatus returns the most recent trail row, or nil when the
// system has never synced.
func (db *DB) LatestSyncStatus() (*domain.SyncRecord, error) {
	var rec domain.SyncRecord
	err := db.Get(&rec, `SELECT * FROM sync_metadata ORDER BY id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
