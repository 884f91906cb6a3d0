package syncer

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/galihvsx/better-commuline-api/internal/config"
	"github.com/galihvsx/better-commuline-api/internal/domain"
	"github.com/galihvsx/better-commuline-api/internal/krl"
	"github.com/galihvsx/better-commuline-api/internal/logger"
	"github.com/galihvsx/better-commuline-api/internal/store"
)

// fakeUpstream implements Upstream for tests.
type fakeUpstream struct {
	mu            sync.Mutex
	stations      []krl.StationData
	routeMaps     []krl.RouteMapData
	schedules     map[string][]krl.ScheduleData
	scheduleErrs  map[string]error
	stationsErr   error
	routeMapsErr  error
	preflightErr  error
	scheduleCalls []string
}

func (f *fakeUpstream) GetStations(ctx context.Context) ([]krl.StationData, error) {
	if f.stationsErr != nil {
		return nil, f.stationsErr
	}
	return f.stations, nil
}

func (f *fakeUpstream) GetSchedules(ctx context.Context, stationID, timeFrom, timeTo string) ([]krl.ScheduleData, error) {
	f.mu.Lock()
	f.scheduleCalls = append(f.scheduleCalls, stationID)
	f.mu.Unlock()

	if err, ok := f.scheduleErrs[stationID]; ok {
		return nil, err
	}
	return f.schedules[stationID], nil
}

func (f *fakeUpstream) GetRouteMaps(ctx context.Context) ([]krl.RouteMapData, error) {
	if f.routeMapsErr != nil {
		return nil, f.routeMapsErr
	}
	return f.routeMaps, nil
}

func (f *fakeUpstream) SendPreflight(ctx context.Context, path string) error {
	return f.preflightErr
}

func (f *fakeUpstream) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.scheduleCalls))
	copy(out, f.scheduleCalls)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		SyncSchedules:    true,
		SyncBatchSize:    5,
		SyncStationDelay: 0,
	}
}

func setupEngine(t *testing.T, upstream *fakeUpstream) (*Engine, *store.DB) {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	log := logger.New(logger.Config{Level: "error", Format: "text"})
	return NewEngine(db, upstream, testConfig(), log), db
}

func seedStations(t *testing.T, db *store.DB, stations ...domain.Station) {
	t.Helper()
	now := time.Now().UTC()
	for i := range stations {
		stations[i].CreatedAt = now
		stations[i].UpdatedAt = now
		if stations[i].Name == "" {
			stations[i].Name = stations[i].ID
		}
	}
	if err := db.ReplaceStations(stations); err != nil {
		t.Fatalf("ReplaceStations failed: %v", err)
	}
}

func TestSyncStationScheduleWritesRows(t *testing.T) {
	upstream := &fakeUpstream{
		schedules: map[string][]krl.ScheduleData{
			"BOO": {
				{TrainID: "1001", Line: "COMMUTER LINE", Route: "BOGOR-MANGGARAI", TimeEst: "08:00", DestTime: "09:10", Color: "#DD0067"},
				{TrainID: "1002", Line: "COMMUTER LINE", Route: "BOGOR-JAKARTAKOTA", TimeEst: "08:30", DestTime: "10:05", Color: "#DD0067"},
			},
		},
	}
	engine, db := setupEngine(t, upstream)
	seedStations(t, db,
		domain.Station{ID: "BOO", Name: "BOGOR", FgEnable: 1},
		domain.Station{ID: "MRI", Name: "MANGGARAI", FgEnable: 1},
		domain.Station{ID: "JAKK", Name: "JAKARTA KOTA", FgEnable: 1},
	)

	n, err := engine.SyncStationSchedule(context.Background(), "BOO")
	if err != nil {
		t.Fatalf("SyncStationSchedule failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 rows written, got %d", n)
	}

	// Rerun converges: same count, no duplicates.
	n, err = engine.SyncStationSchedule(context.Background(), "BOO")
	if err != nil {
		t.Fatalf("second SyncStationSchedule failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected idempotent rerun to write 2 rows, got %d", n)
	}
	count, err := db.CountSchedules("BOO")
	if err != nil {
		t.Fatalf("CountSchedules failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 stored rows after rerun, got %d", count)
	}
}

func TestSyncStationSchedule404MarksInactive(t *testing.T) {
	upstream := &fakeUpstream{
		scheduleErrs: map[string]error{
			"GON": &krl.UpstreamError{StatusCode: http.StatusNotFound, Body: `{"status":404}`},
		},
	}
	engine, db := setupEngine(t, upstream)
	seedStations(t, db, domain.Station{ID: "GON", Name: "GONDANGDIA", FgEnable: 1})

	n, err := engine.SyncStationSchedule(context.Background(), "GON")
	if err != nil {
		t.Fatalf("Expected 404 to be non-fatal, got: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 rows for withdrawn station, got %d", n)
	}

	s, err := db.GetStation("GON")
	if err != nil {
		t.Fatalf("GetStation failed: %v", err)
	}
	if active, ok := s.Metadata["active"].(bool); !ok || active {
		t.Errorf("Expected inactive metadata, got %+v", s.Metadata)
	}
}

func TestSyncStationSchedule500Propagates(t *testing.T) {
	upstream := &fakeUpstream{
		scheduleErrs: map[string]error{
			"BOO": &krl.UpstreamError{StatusCode: http.StatusInternalServerError, Body: "boom"},
		},
	}
	engine, db := setupEngine(t, upstream)
	seedStations(t, db, domain.Station{ID: "BOO", Name: "BOGOR", FgEnable: 1})

	_, err := engine.SyncStationSchedule(context.Background(), "BOO")
	if err == nil {
		t.Fatal("Expected 500 to propagate")
	}
	if !krl.IsStatus(err, http.StatusInternalServerError) {
		t.Errorf("Expected status 500 on error, got: %v", err)
	}

	// No metadata change on non-404 failure.
	s, _ := db.GetStation("BOO")
	if s.Metadata != nil {
		t.Errorf("Expected metadata untouched, got %+v", s.Metadata)
	}
}

func TestSyncStationScheduleSkipsUnmappableRoutes(t *testing.T) {
	upstream := &fakeUpstream{
		schedules: map[string][]krl.ScheduleData{
			"BOO": {
				{TrainID: "1001", Line: "COMMUTER LINE", Route: "BOGOR-MANGGARAI", TimeEst: "08:00", DestTime: "09:10"},
				{TrainID: "1002", Line: "COMMUTER LINE", Route: "BOGOR-ATLANTIS", TimeEst: "08:15", DestTime: "09:25"},
				{TrainID: "1003", Line: "COMMUTER LINE", Route: "BOGOR-MANGGARAI", TimeEst: "not-a-time", DestTime: "09:40"},
			},
		},
	}
	engine, db := setupEngine(t, upstream)
	seedStations(t, db,
		domain.Station{ID: "BOO", Name: "BOGOR", FgEnable: 1},
		domain.Station{ID: "MRI", Name: "MANGGARAI", FgEnable: 1},
	)

	n, err := engine.SyncStationSchedule(context.Background(), "BOO")
	if err != nil {
		t.Fatalf("Expected per-item skips to be non-fatal, got: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 row written with 2 skipped, got %d", n)
	}
	count, _ := db.CountSchedules("BOO")
	if count != 1 {
		t.Errorf("Expected 1 stored row, got %d", count)
	}
}

func TestSyncStationScheduleEmptyResult(t *testing.T) {
	upstream := &fakeUpstream{schedules: map[string][]krl.ScheduleData{}}
	engine, db := setupEngine(t, upstream)
	seedStations(t, db, domain.Station{ID: "BOO", Name: "BOGOR", FgEnable: 1})

	n, err := engine.SyncStationSchedule(context.Background(), "BOO")
	if err != nil {
		t.Fatalf("SyncStationSchedule failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 rows for empty upstream result, got %d", n)
	}
}

func TestSyncAllSchedulesBatchingAndPartialFailure(t *testing.T) {
	upstream := &fakeUpstream{
		schedules: map[string][]krl.ScheduleData{},
		scheduleErrs: map[string]error{
			"S03": &krl.UpstreamError{StatusCode: http.StatusInternalServerError, Body: "boom"},
		},
	}
	engine, db := setupEngine(t, upstream)

	// 12 enabled stations with batch size 5: batches of 5, 5, 2.
	var stations []domain.Station
	for i := 1; i <= 12; i++ {
		id := "S" + string(rune('0'+i/10)) + string(rune('0'+i%10))
		stations = append(stations, domain.Station{ID: id, Name: id, FgEnable: 1})
	}
	// A disabled station must not be attempted.
	stations = append(stations, domain.Station{ID: "OFF", Name: "OFF", FgEnable: 0})
	seedStations(t, db, stations...)

	if err := engine.SyncAllSchedules(context.Background()); err != nil {
		t.Fatalf("Expected partial failure to be tolerated, got: %v", err)
	}

	calls := upstream.calls()
	if len(calls) != 12 {
		t.Fatalf("Expected all 12 enabled stations attempted, got %d (%v)", len(calls), calls)
	}
	for _, id := range calls {
		if id == "OFF" {
			t.Error("Disabled station must not be synced")
		}
	}
}
