package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/galihvsx/better-commuline-api/internal/domain"
	"github.com/galihvsx/better-commuline-api/internal/logger"
	"github.com/galihvsx/better-commuline-api/internal/store"
)

func setupService(t *testing.T) (*ScheduleService, *store.DB) {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := NewScheduleService(db, logger.New(logger.Config{Level: "error", Format: "text"}))
	return svc, db
}

func seedStation(t *testing.T, db *store.DB, stations ...domain.Station) {
	t.Helper()
	now := time.Now().UTC()
	for i := range stations {
		stations[i].CreatedAt = now
		stations[i].UpdatedAt = now
	}
	if err := db.ReplaceStations(stations); err != nil {
		t.Fatalf("ReplaceStations failed: %v", err)
	}
}

func seedSchedule(t *testing.T, db *store.DB, svc *ScheduleService, station, train, hhmm string, metadata domain.Metadata) {
	t.Helper()
	departs, err := domain.ParseClock(hhmm, svc.now())
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	now := time.Now().UTC()
	s := &domain.Schedule{
		ID:            domain.ScheduleID(station, train),
		StationID:     station,
		OriginID:      station,
		DestinationID: "MRI",
		TrainID:       train,
		Line:          "COMMUTER LINE",
		Route:         "BOGOR-MANGGARAI",
		DepartsAt:     departs,
		ArrivesAt:     departs.Add(45 * time.Minute),
		Metadata:      metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.UpsertSchedule(s); err != nil {
		t.Fatalf("UpsertSchedule failed: %v", err)
	}
}

func TestQueryReturnsRangeInOrder(t *testing.T) {
	svc, db := setupService(t)
	seedStation(t, db,
		domain.Station{ID: "STA", Name: "BOGOR", FgEnable: 1},
		domain.Station{ID: "MRI", Name: "MANGGARAI", FgEnable: 1},
	)
	seedSchedule(t, db, svc, "STA", "1001", "08:00", nil)
	seedSchedule(t, db, svc, "STA", "1002", "10:15", nil)
	seedSchedule(t, db, svc, "STA", "1003", "14:30", nil)

	entries, err := svc.Query("STA", "08:00", "11:00")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected exactly 2 entries in [08:00, 11:00], got %d", len(entries))
	}
	if entries[0].TimeEst != "08:00" || entries[1].TimeEst != "10:15" {
		t.Errorf("Expected departure order 08:00, 10:15; got %s, %s",
			entries[0].TimeEst, entries[1].TimeEst)
	}
	if entries[0].Destination != "MANGGARAI" {
		t.Errorf("Expected destination name MANGGARAI, got %s", entries[0].Destination)
	}
	if entries[0].DestTime != "08:45" {
		t.Errorf("Expected arrival 08:45, got %s", entries[0].DestTime)
	}
}

func TestQueryEmptyRangeIsNotAnError(t *testing.T) {
	svc, db := setupService(t)
	seedStation(t, db, domain.Station{ID: "STA", Name: "BOGOR", FgEnable: 1})

	entries, err := svc.Query("STA", "02:00", "03:00")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty list, got %d entries", len(entries))
	}
}

func TestQueryUnknownStation(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Query("NOPE", "08:00", "11:00")
	if !errors.Is(err, ErrStationNotFound) {
		t.Errorf("Expected ErrStationNotFound, got: %v", err)
	}
}

func TestQueryColorExtraction(t *testing.T) {
	svc, db := setupService(t)
	seedStation(t, db,
		domain.Station{ID: "STA", Name: "BOGOR", FgEnable: 1},
		domain.Station{ID: "MRI", Name: "MANGGARAI", FgEnable: 1},
	)
	seedSchedule(t, db, svc, "STA", "1001", "08:00", nil)
	seedSchedule(t, db, svc, "STA", "1002", "09:00",
		domain.Metadata{"origin": map[string]interface{}{"color": "#FF0000"}})
	seedSchedule(t, db, svc, "STA", "1003", "10:00",
		domain.Metadata{"origin": "garbage"})

	entries, err := svc.Query("STA", "08:00", "10:00")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Color != nil {
		t.Errorf("Expected nil color for null metadata, got %v", *entries[0].Color)
	}
	if entries[1].Color == nil || *entries[1].Color != "#FF0000" {
		t.Errorf("Expected #FF0000, got %v", entries[1].Color)
	}
	// Extraction failures are swallowed, never propagated.
	if entries[2].Color != nil {
		t.Errorf("Expected nil color for malformed metadata, got %v", *entries[2].Color)
	}
}

func TestQueryUnavailableOnClosedDB(t *testing.T) {
	svc, db := setupService(t)
	seedStation(t, db, domain.Station{ID: "STA", Name: "BOGOR", FgEnable: 1})
	_ = db.Close()

	_, err := svc.Query("STA", "08:00", "11:00")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable after db close, got: %v", err)
	}
}
