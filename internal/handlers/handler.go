// Package handlers exposes the cached data and the sync contract over HTTP.
package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"

	"github.com/galihvsx/better-commuline-api/internal/constants"
	"github.com/galihvsx/better-commuline-api/internal/logger"
	"github.com/galihvsx/better-commuline-api/internal/services"
	"github.com/galihvsx/better-commuline-api/internal/syncer"
)

type Handler struct {
	Schedules    *services.ScheduleService
	Reference    *services.ReferenceService
	Fares        *services.FareService
	Orchestrator *syncer.Orchestrator
	Logger       *logger.Logger

	decoder  *form.Decoder
	validate *validator.Validate
}

func NewHandler(
	schedules *services.ScheduleService,
	reference *services.ReferenceService,
	fares *services.FareService,
	orch *syncer.Orchestrator,
	log *logger.Logger,
) *Handler {
	h := &Handler{
		Schedules:    schedules,
		Reference:    reference,
		Fares:        fares,
		Orchestrator: orch,
		Logger:       log.WithComponent("http"),
		decoder:      form.NewDecoder(),
		validate:     validator.New(),
	}

	hhmm := regexp.MustCompile(constants.TimePattern)
	_ = h.validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmm.MatchString(fl.Field().String())
	})
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/station", h.ListStations)
		r.Get("/route", h.ListRouteMaps)
		r.Get("/schedule", h.QuerySchedules)
		r.Get("/fare", h.GetFare)

		r.Post("/sync", h.TriggerSync)
		r.Post("/sync/schedule", h.TriggerScheduleSync)
		r.Get("/sync/status", h.SyncStatus)
	})
}

// envelope is the uniform response shape.
type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, envelope{Status: status, Message: message})
}
