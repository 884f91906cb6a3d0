package domain

import (
	"fmt"
	"strings"
	"time"
)

// WIB is the civil timezone (UTC+7) used for all human-facing timestamps
// and for anchoring HH:mm schedule times to a calendar day.
var WIB = time.FixedZone("WIB", 7*60*60)

// SyncStatus represents the state of a sync run
type SyncStatus string

const (
	SyncInProgress SyncStatus = "in_progress"
	SyncSuccess    SyncStatus = "success"
	SyncFailed     SyncStatus = "failed"
)

// Station is a commuter-line station as cached from upstream.
// The id is the upstream short code (e.g. "THB").
type Station struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Daop      int       `json:"daop" db:"daop"`
	FgEnable  int       `json:"fg_enable" db:"fg_enable"`
	Metadata  Metadata  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Enabled reports whether the station takes part in schedule sync.
func (s *Station) Enabled() bool {
	return s.FgEnable == 1
}

// RouteMap is a permalink to an upstream route map image for one operational area.
type RouteMap struct {
	ID        int64     `json:"id" db:"id"`
	Daop      int       `json:"daop" db:"daop"`
	Permalink string    `json:"permalink" db:"permalink"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Schedule is one train departure from a station, keyed deterministically
// by (station, train) so repeated syncs converge.
type Schedule struct {
	ID            string    `json:"id" db:"id"`
	StationID     string    `json:"station_id" db:"station_id"`
	OriginID      string    `json:"origin_id" db:"origin_id"`
	DestinationID string    `json:"destination_id" db:"destination_id"`
	TrainID       string    `json:"train_id" db:"train_id"`
	Line          string    `json:"line" db:"line"`
	Route         string    `json:"route" db:"route"`
	DepartsAt     time.Time `json:"departs_at" db:"departs_at"`
	ArrivesAt     time.Time `json:"arrives_at" db:"arrives_at"`
	Metadata      Metadata  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// SyncRecord is one row of the append-only sync status trail.
// The latest row by id is the current sync state.
type SyncRecord struct {
	ID        int64      `json:"id" db:"id"`
	Timestamp time.Time  `json:"ts" db:"ts"`
	Status    SyncStatus `json:"status" db:"status"`
	Error     *string    `json:"error,omitempty" db:"error"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// ScheduleID derives the deterministic schedule identifier for a
// (station, train) pair. Lowercase so reruns converge on the same key.
func ScheduleID(stationID, trainID string) string {
	return strings.ToLower(fmt.Sprintf("sc_%s_%s", stationID, trainID))
}

// ParseClock parses an "HH:mm" string and anchors it to the calendar day
// of the given reference instant in WIB. Upstream sometimes appends
// seconds, so "HH:mm:ss" is accepted too.
func ParseClock(hhmm string, day time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		t, err = time.Parse("15:04:05", hhmm)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	d := day.In(WIB)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, WIB), nil
}

// FormatClock renders an instant back to "HH:mm" in WIB.
func FormatClock(t time.Time) string {
	return t.In(WIB).Format("15:04")
}

// FormatWIB renders an instant as a human-facing WIB timestamp.
func FormatWIB(t time.Time) string {
	return t.In(WIB).Format("2006-01-02 15:04:05") + " WIB"
}
