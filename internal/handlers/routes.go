package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/galihvsx/better-commuline-api/internal/domain"
	"github.com/galihvsx/better-commuline-api/internal/krl"
	"github.com/galihvsx/better-commuline-api/internal/services"
	"github.com/galihvsx/better-commuline-api/internal/syncer"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope{Status: http.StatusOK, Message: "ok"})
}

func (h *Handler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Reference.ListStations()
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "station data temporarily unavailable")
		return
	}
	h.writeData(w, stations)
}

func (h *Handler) ListRouteMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := h.Reference.ListRouteMaps()
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "route map data temporarily unavailable")
		return
	}
	h.writeData(w, maps)
}

func (h *Handler) QuerySchedules(w http.ResponseWriter, r *http.Request) {
	var q ScheduleQuery
	if err := h.decodeQuery(&q, r.URL.Query()); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.Schedules.Query(q.StationID, q.TimeFrom, q.TimeTo)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStationNotFound):
			h.writeError(w, http.StatusNotFound, "station "+q.StationID+" not found")
		case errors.Is(err, services.ErrUnavailable):
			h.writeError(w, http.StatusServiceUnavailable, "schedule data temporarily unavailable")
		default:
			h.writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	h.writeData(w, entries)
}

func (h *Handler) GetFare(w http.ResponseWriter, r *http.Request) {
	var q FareQuery
	if err := h.decodeQuery(&q, r.URL.Query()); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fares, err := h.Fares.Get(r.Context(), q.StationFrom, q.StationTo)
	if err != nil {
		if krl.IsStatus(err, http.StatusNotFound) {
			h.writeError(w, http.StatusNotFound, "fare not found for the given stations")
			return
		}
		h.Logger.Error("fare proxy failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "upstream fare lookup failed")
		return
	}
	h.writeData(w, fares)
}

// TriggerSync acknowledges immediately and runs the full sync in the
// background; failures are only observable via the status endpoint.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, h.Orchestrator.Run)
}

func (h *Handler) TriggerScheduleSync(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, h.Orchestrator.RunScheduleSync)
}

func (h *Handler) trigger(w http.ResponseWriter, run func(context.Context) error) {
	status, err := h.Orchestrator.Status()
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "sync status temporarily unavailable")
		return
	}
	if status != nil && status.Status == domain.SyncInProgress {
		h.writeError(w, http.StatusConflict, "a sync is already in progress")
		return
	}

	go func() {
		// Detached from the request: the trigger only acknowledges.
		if err := run(context.Background()); err != nil {
			if errors.Is(err, syncer.ErrSyncInProgress) {
				h.Logger.Warn("sync trigger lost the single-flight race")
				return
			}
			h.Logger.Error("background sync failed", "error", err)
		}
	}()

	h.writeJSON(w, http.StatusAccepted, envelope{Status: http.StatusAccepted, Message: "sync started"})
}

func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Orchestrator.Status()
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "sync status temporarily unavailable")
		return
	}
	if status == nil {
		h.writeJSON(w, http.StatusOK, envelope{Status: http.StatusOK, Message: "no sync has been run yet"})
		return
	}
	h.writeData(w, status)
}
