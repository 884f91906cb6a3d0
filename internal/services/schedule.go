package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/galihvsx/better-commuline-api/internal/domain"
	"github.com/galihvsx/better-commuline-api/internal/logger"
	"github.com/galihvsx/better-commuline-api/internal/store"
)

var (
	// ErrStationNotFound is a business-level condition, not a defect.
	ErrStationNotFound = errors.New("station not found")
	// ErrUnavailable wraps database failures at the query boundary.
	ErrUnavailable = errors.New("schedule data temporarily unavailable")
)

// ScheduleEntry is the API-facing shape of one cached departure.
type ScheduleEntry struct {
	ID          string  `json:"id"`
	StationID   string  `json:"station_id"`
	TrainID     string  `json:"train_id"`
	Line        string  `json:"line"`
	Route       string  `json:"route"`
	Color       *string `json:"color"`
	Destination string  `json:"destination"`
	TimeEst     string  `json:"time_est"`
	DestTime    string  `json:"dest_time"`
}

// ScheduleService serves cached schedule reads.
type ScheduleService struct {
	db     *store.DB
	logger *logger.Logger
	now    func() time.Time
}

func NewScheduleService(db *store.DB, log *logger.Logger) *ScheduleService {
	return &ScheduleService{
		db:     db,
		logger: log.WithComponent("schedule-service"),
		now:    time.Now,
	}
}

// Query returns the station's departures within [timeFrom, timeTo]
// inclusive on the current WIB day, ordered by departure ascending.
// Both times are "HH:mm" strings, pre-validated by the HTTP layer.
func (s *ScheduleService) Query(stationID, timeFrom, timeTo string) ([]ScheduleEntry, error) {
	now := s.now()
	from, err := domain.ParseClock(timeFrom, now)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseClock(timeTo, now)
	if err != nil {
		return nil, err
	}

	st, err := s.db.GetStation(stationID)
	if err != nil {
		s.logger.Error("station lookup failed",
			"station_id", stationID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: %s", ErrStationNotFound, stationID)
	}

	rows, err := s.db.ListSchedulesBetween(stationID, from, to)
	if err != nil {
		s.logger.Error("schedule query failed",
			"station_id", stationID, "time_from", timeFrom, "time_to", timeTo, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	entries := make([]ScheduleEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ScheduleEntry{
			ID:          row.ID,
			StationID:   row.StationID,
			TrainID:     row.TrainID,
			Line:        row.Line,
			Route:       row.Route,
			Color:       row.Metadata.Color(),
			Destination: row.DestinationName,
			TimeEst:     domain.FormatClock(row.DepartsAt),
			DestTime:    domain.FormatClock(row.ArrivesAt),
		})
	}
	return entries, nil
}
