package store

import (
	"fmt"

	"github.com/galihvsx/better-commuline-api/internal/domain"
)

// ReplaceRouteMaps replaces the routemap table wholesale inside a single
// transaction.
func (db *DB) ReplaceRouteMaps(maps []domain.RouteMap) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin routemap replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM routemaps`); err != nil {
		return fmt.Errorf("failed to clear routemaps: %w", err)
	}

	query := `INSERT INTO routemaps (daop, permalink, created_at, updated_at)
		VALUES (:daop, :permalink, :created_at, :updated_at)`
	for i := range maps {
		if _, err := tx.NamedExec(query, &maps[i]); err != nil {
			return fmt.Errorf("failed to insert routemap for daop %d: %w", maps[i].Daop, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit routemap replace: %w", err)
	}
	return nil
}

func (db *DB) ListRouteMaps() ([]domain.RouteMap, error) {
	var maps []domain.RouteMap
	err := db.Select(&maps, `SELECT * FROM routemaps ORDER BY daop ASC, id ASC`)
	return maps, err
}
