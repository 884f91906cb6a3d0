// Package syncer reconciles the local cache with the upstream KRL API.
package syncer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/galihvsx/better-commuline-api/internal/config"
	"github.com/galihvsx/better-commuline-api/internal/constants"
	"github.com/galihvsx/better-commuline-api/internal/domain"
	"github.com/galihvsx/better-commuline-api/internal/krl"
	"github.com/galihvsx/better-commuline-api/internal/logger"
	"github.com/galihvsx/better-commuline-api/internal/station"
	"github.com/galihvsx/better-commuline-api/internal/store"
)

// Upstream is the slice of the KRL client the sync subsystem depends on.
type Upstream interface {
	GetStations(ctx context.Context) ([]krl.StationData, error)
	GetSchedules(ctx context.Context, stationID, timeFrom, timeTo string) ([]krl.ScheduleData, error)
	GetRouteMaps(ctx context.Context) ([]krl.RouteMapData, error)
	SendPreflight(ctx context.Context, path string) error
}

// Engine syncs per-station schedules in rate-limited batches with
// partial-failure tolerance.
type Engine struct {
	db     *store.DB
	client Upstream
	cfg    *config.Config
	logger *logger.Logger
	now    func() time.Time
}

func NewEngine(db *store.DB, client Upstream, cfg *config.Config, log *logger.Logger) *Engine {
	return &Engine{
		db:     db,
		client: client,
		cfg:    cfg,
		logger: log.WithComponent("sync-engine"),
		now:    time.Now,
	}
}

// SyncStationSchedule fetches the full-day schedule for one station and
// upserts the resulting rows. Returns the number of rows written.
//
// A 404 from upstream means the station was withdrawn: its row is marked
// inactive and the call succeeds with 0 rows. Any other upstream failure
// is fatal for this station's attempt.
func (e *Engine) SyncStationSchedule(ctx context.Context, stationID string) (int, error) {
	log := e.logger.WithStation(stationID)

	if err := e.client.SendPreflight(ctx, constants.PathSchedules); err != nil {
		return 0, fmt.Errorf("preflight failed: %w", err)
	}

	items, err := e.client.GetSchedules(ctx, stationID, constants.FullDayFrom, constants.FullDayTo)
	if err != nil {
		if krl.IsStatus(err, 404) {
			log.Info("station no longer served by upstream, marking inactive")
			if mErr := e.db.UpdateStationMetadata(stationID, domain.InactiveMetadata()); mErr != nil {
				log.Error("failed to mark station inactive", "error", mErr)
			}
			return 0, nil
		}
		return 0, err
	}

	if len(items) == 0 {
		return 0, nil
	}

	names, err := e.buildNameMap()
	if err != nil {
		return 0, fmt.Errorf("failed to build station name map: %w", err)
	}

	now := e.now()
	written := 0
	skipped := 0
	for _, item := range items {
		origin, destination := station.ParseRoute(item.Route)
		originID, okO := names[strings.ToUpper(origin)]
		destID, okD := names[strings.ToUpper(destination)]
		if !okO || !okD {
			// One unmappable route never fails the whole station.
			skipped++
			log.Debug("skipping schedule with unresolvable route",
				"route", item.Route, "train_id", item.TrainID)
			continue
		}

		departsAt, err := domain.ParseClock(item.TimeEst, now)
		if err != nil {
			skipped++
			log.Debug("skipping schedule with malformed departure time",
				"time_est", item.TimeEst, "train_id", item.TrainID)
			continue
		}
		arrivesAt, err := domain.ParseClock(item.DestTime, now)
		if err != nil {
			skipped++
			log.Debug("skipping schedule with malformed arrival time",
				"dest_time", item.DestTime, "train_id", item.TrainID)
			continue
		}

		var metadata domain.Metadata
		if item.Color != "" {
			metadata = domain.Metadata{"origin": map[string]interface{}{"color": item.Color}}
		}

		sched := &domain.Schedule{
			ID:            domain.ScheduleID(stationID, item.TrainID),
			StationID:     stationID,
			OriginID:      originID,
			DestinationID: destID,
			TrainID:       item.TrainID,
			Line:          item.Line,
			Route:         item.Route,
			DepartsAt:     departsAt,
			ArrivesAt:     arrivesAt,
			Metadata:      metadata,
			CreatedAt:     now.UTC(),
			UpdatedAt:     now.UTC(),
		}
		if err := e.db.UpsertSchedule(sched); err != nil {
			return written, fmt.Errorf("failed to upsert schedule for train %s: %w", item.TrainID, err)
		}
		written++
	}

	if skipped > 0 {
		log.Warn("skipped schedules during sync", "skipped", skipped, "written", written)
	}
	return written, nil
}

// SyncAllSchedules syncs every enabled station in sequential batches.
// Within a batch, stations run concurrently with a stagger delay so
// upstream is not hammered. Per-station failures are counted and logged,
// never returned: a full run must not abort because a handful of
// stations fail.
func (e *Engine) SyncAllSchedules(ctx context.Context) error {
	stations, err := e.db.ListEnabledStations()
	if err != nil {
		return fmt.Errorf("failed to list enabled stations: %w", err)
	}
	if len(stations) == 0 {
		e.logger.Info("no enabled stations to sync")
		return nil
	}

	batchSize := e.cfg.SyncBatchSize
	if batchSize <= 0 {
		batchSize = constants.DefaultBatchSize
	}

	total := 0
	failures := 0
	for start := 0; start < len(stations); start += batchSize {
		end := start + batchSize
		if end > len(stations) {
			end = len(stations)
		}
		batch := stations[start:end]

		written, failed := e.syncBatch(ctx, batch)
		total += written
		failures += failed

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	e.logger.Info("schedule sync finished",
		"stations", len(stations), "rows", total, "failed_stations", failures)
	return nil
}

// syncBatch runs one batch concurrently and joins it before returning.
// One station's failure does not cancel its batch-mates.
func (e *Engine) syncBatch(ctx context.Context, batch []domain.Station) (written, failed int) {
	var wg sync.WaitGroup
	type result struct {
		stationID string
		written   int
		err       error
	}
	results := make(chan result, len(batch))

	for i, st := range batch {
		wg.Add(1)
		go func(idx int, stationID string) {
			defer wg.Done()

			// Stagger the in-flight calls so upstream sees a trickle,
			// not a burst.
			if idx > 0 {
				select {
				case <-ctx.Done():
					results <- result{stationID: stationID, err: ctx.Err()}
					return
				case <-time.After(time.Duration(idx) * e.cfg.SyncStationDelay):
				}
			}

			n, err := e.SyncStationSchedule(ctx, stationID)
			results <- result{stationID: stationID, written: n, err: err}
		}(i, st.ID)
	}

	wg.Wait()
	close(results)

	for r := range results {
		if r.err != nil {
			failed++
			e.logger.Error("station schedule sync failed",
				"station_id", r.stationID, "error", r.err)
			continue
		}
		written += r.written
	}
	return written, failed
}

// buildNameMap loads the full station table and keys it by uppercased
// display name. Route strings only carry names, not ids.
func (e *Engine) buildNameMap() (map[string]string, error) {
	stations, err := e.db.ListStations()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(stations))
	for _, s := range stations {
		names[strings.ToUpper(s.Name)] = s.ID
	}
	return names, nil
}
