package store

import (
	"fmt"
	"time"

	"github.com/galihvsx/better-commuline-api/internal/domain"
)

// ScheduleRow is a schedule joined to its destination station's display name.
type ScheduleRow struct {
	domain.Schedule
	DestinationName string `db:"destination_name"`
}

// UpsertSchedule inserts a schedule by its deterministic id. On conflict
// only departure, arrival, metadata and updated_at change; the train id,
// line, route and station references are immutable once created.
func (db *DB) UpsertSchedule(s *domain.Schedule) error {
	s.DepartsAt = s.DepartsAt.UTC()
	s.ArrivesAt = s.ArrivesAt.UTC()

	query := `INSERT INTO schedules (
		id, station_id, origin_id, destination_id, train_id, line, route,
		departs_at, arrives_at, metadata, created_at, updated_at
	) VALUES (
		:id, :station_id, :origin_id, :destination_id, :train_id, :line, :route,
		:departs_at, :arrives_at, :metadata, :created_at, :updated_at
	)
	ON CONFLICT(id) DO UPDATE SET
		departs_at = excluded.departs_at,
		arrives_at = excluded.arrives_at,
		metadata = excluded.metadata,
		updated_at = excluded.updated_at`

	if _, err := db.NamedExec(query, s); err != nil {
		return fmt.Errorf("failed to upsert schedule %s: %w", s.ID, err)
	}
	return nil
}

// ListSchedulesBetween returns schedules for a station departing within
// [from, to] inclusive, joined to the destination station for its name,
// ordered by departure ascending.
func (db *DB) ListSchedulesBetween(stationID string, from, to time.Time) ([]ScheduleRow, error) {
	query := `SELECT s.*, st.name AS destination_name
		FROM schedules s
		INNER JOIN stations st ON st.id = s.destination_id
		WHERE s.station_id = ? AND s.departs_at >= ? AND s.departs_at <= ?
		ORDER BY s.departs_at ASC`

	var rows []ScheduleRow
	err := db.Select(&rows, query, stationID, from.UTC(), to.UTC())
	return rows, err
}

func (db *DB) CountSchedules(stationID string) (int, error) {
	var count int
	err := db.Get(&count, `SELECT COUNT(*) FROM schedules WHERE station_id = ?`, stationID)
	return count, err
}
