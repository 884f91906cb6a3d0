package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/galihvsx/better-commuline-api/internal/domain"
)

// ReplaceStations replaces the station table wholesale inside a single
// transaction, so readers never observe an empty table.
func (db *DB) ReplaceStations(stations []domain.Station) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin station replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM stations`); err != nil {
		return fmt.Errorf("failed to clear stations: %w", err)
	}

	query := `INSERT INTO stations (id, name, daop, fg_enable, metadata, created_at, updated_at)
		VALUES (:id, :name, :daop, :fg_enable, :metadata, :created_at, :updated_at)`
	for i := range stations {
		if _, err := tx.NamedExec(query, &stations[i]); err != nil {
			return fmt.Errorf("failed to insert station %s: %w", stations[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit station replace: %w", err)
	}
	return nil
}

func (db *DB) ListStations() ([]domain.Station, error) {
	var stations []domain.Station
	err := db.Select(&stations, `SELECT * FROM stations ORDER BY id ASC`)
	return stations, err
}

func (db *DB) ListEnabledStations() ([]domain.Station, error) {
	var stations []domain.Station
	err := db.Select(&stations, `SELECT * FROM stations WHERE fg_enable = 1 ORDER BY id ASC`)
	return stations, err
}

// GetStation returns nil without error when the station does not exist.
func (db *DB) GetStation(id string) (*domain.Station, error) {
	var s domain.Station
	err := db.Get(&s, `SELECT * FROM stations WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) UpdateStationMetadata(id string, metadata domain.Metadata) error {
	result, err := db.Exec(`UPDATE stations SET metadata = ?, updated_at = ? WHERE id = ?`,
		metadata, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update station metadata: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("station %s not found", id)
	}
	return nil
}
