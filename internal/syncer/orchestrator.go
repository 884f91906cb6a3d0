package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/galihvsx/better-commuline-api/internal/config"
	"github.com/galihvsx/better-commuline-api/internal/domain"
	"github.com/galihvsx/better-commuline-api/internal/logger"
	"github.com/galihvsx/better-commuline-api/internal/store"
)

// ErrSyncInProgress is returned when a run is requested while another
// run holds the single-flight guard.
var ErrSyncInProgress = errors.New("a sync is already in progress")

// Status is the caller-facing view of the latest sync state.
type Status struct {
	Status   domain.SyncStatus `json:"status"`
	SyncedAt string            `json:"synced_at"`
	Error    *string           `json:"error,omitempty"`
}

// Orchestrator drives full sync runs and records the append-only status
// trail. At most one run is active at a time; the in-process mutex is
// the single-flight guard, the status trail is how callers observe it.
type Orchestrator struct {
	db     *store.DB
	client Upstream
	engine *Engine
	cfg    *config.Config
	logger *logger.Logger
	now    func() time.Time
	mu     sync.Mutex
}

func NewOrchestrator(db *store.DB, client Upstream, engine *Engine, cfg *config.Config, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		db:     db,
		client: client,
		engine: engine,
		cfg:    cfg,
		logger: log.WithComponent("sync-orchestrator"),
		now:    time.Now,
	}
}

// Run refreshes stations and route maps wholesale, then syncs schedules
// when enabled. A schedule sync failure does not fail the run: the
// reference data having landed is a sufficient success condition.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !o.mu.TryLock() {
		return ErrSyncInProgress
	}
	defer o.mu.Unlock()

	log := o.logger.WithRun(uuid.New().String())
	log.Info("starting full sync")

	if err := o.db.AppendSyncStatus(domain.SyncInProgress, o.now(), nil); err != nil {
		return err
	}

	if err := o.refreshReferenceData(ctx, log); err != nil {
		o.recordFailure(log, err)
		return err
	}

	if o.cfg.SyncSchedules {
		if err := o.engine.SyncAllSchedules(ctx); err != nil {
			log.Error("schedule sync failed; stations and route maps already refreshed", "error", err)
		}
	}

	if err := o.db.AppendSyncStatus(domain.SyncSuccess, o.now(), nil); err != nil {
		return err
	}
	log.Info("full sync finished")
	return nil
}

// RunScheduleSync brackets a schedules-only sync with the same status
// trail. Unlike Run, a failure here is fatal.
func (o *Orchestrator) RunScheduleSync(ctx context.Context) error {
	if !o.mu.TryLock() {
		return ErrSyncInProgress
	}
	defer o.mu.Unlock()

	log := o.logger.WithRun(uuid.New().String())
	log.Info("starting schedule sync")

	if err := o.db.AppendSyncStatus(domain.SyncInProgress, o.now(), nil); err != nil {
		return err
	}

	if err := o.engine.SyncAllSchedules(ctx); err != nil {
		o.recordFailure(log, err)
		return err
	}

	if err := o.db.AppendSyncStatus(domain.SyncSuccess, o.now(), nil); err != nil {
		return err
	}
	log.Info("schedule sync finished")
	return nil
}

// Status returns the latest sync state, or nil when the system has never
// synced.
func (o *Orchestrator) Status() (*Status, error) {
	rec, err := o.db.LatestSyncStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to read sync status: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return &Status{
		Status:   rec.Status,
		SyncedAt: domain.FormatWIB(rec.Timestamp),
		Error:    rec.Error,
	}, nil
}

// refreshReferenceData replaces the station and route map tables from
// upstream. Any failure here is fatal for the run.
func (o *Orchestrator) refreshReferenceData(ctx context.Context, log *logger.Logger) error {
	upstreamStations, err := o.client.GetStations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stations: %w", err)
	}

	upstreamMaps, err := o.client.GetRouteMaps(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch route maps: %w", err)
	}

	now := o.now().UTC()
	stations := make([]domain.Station, 0, len(upstreamStations))
	for _, s := range upstreamStations {
		stations = append(stations, domain.Station{
			ID:        s.ID,
			Name:      s.Name,
			Daop:      s.Daop,
			FgEnable:  s.FgEnable,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := o.db.ReplaceStations(stations); err != nil {
		return fmt.Errorf("failed to replace stations: %w", err)
	}

	maps := make([]domain.RouteMap, 0, len(upstreamMaps))
	for _, m := range upstreamMaps {
		maps = append(maps, domain.RouteMap{
			Daop:      m.Daop,
			Permalink: m.Permalink,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := o.db.ReplaceRouteMaps(maps); err != nil {
		return fmt.Errorf("failed to replace route maps: %w", err)
	}

	log.Info("reference data refreshed", "stations", len(stations), "routemaps", len(maps))
	return nil
}

func (o *Orchestrator) recordFailure(log *logger.Logger, cause error) {
	msg := cause.Error()
	if err := o.db.AppendSyncStatus(domain.SyncFailed, o.now(), &msg); err != nil {
		log.Error("failed to record sync failure", "error", err)
	}
	log.Error("sync run failed", "error", cause)
}
