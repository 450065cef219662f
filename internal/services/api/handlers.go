package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servicehub/servicehub/internal/domain/service"
	"github.com/servicehub/servicehub/internal/stats"
)

type Handlers struct {
	log *zap.Logger
	uc  *Usecase
}

func NewHandlers(log *zap.Logger, uc *Usecase) *Handlers {
	return &Handlers{log: log, uc: uc}
}

func (h *Handlers) serviceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) timeRange(w http.ResponseWriter, r *http.Request) (stats.TimeRange, bool) {
	raw := r.URL.Query().Get("range")
	if raw == "" {
		raw = string(stats.Range24h)
	}
	rng, err := stats.ParseRange(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return rng, true
}

func (h *Handlers) CreateService(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s, err := h.uc.CreateService(r.Context(), in)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *Handlers) ListServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.ListServices(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.serviceID(w, r)
	if !ok {
		return
	}
	s, err := h.uc.GetService(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handlers) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.serviceID(w, r)
	if !ok {
		return
	}
	var payload struct {
		Ops []service.UpdateOp `json:"ops"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(payload.Ops) == 0 {
		writeError(w, http.StatusBadRequest, "no update operations")
		return
	}
	s, err := h.uc.UpdateService(r.Context(), id, payload.Ops)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handlers) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.serviceID(w, r)
	if !ok {
		return
	}
	if err := h.uc.DeleteService(r.Context(), id); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CheckService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.serviceID(w, r)
	if !ok {
		return
	}
	rec, err := h.uc.CheckService(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) RunAllChecks(w http.ResponseWriter, r *http.Request) {
	report, err := h.uc.RunAllChecks(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) ServiceMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := h.serviceID(w, r)
	if !ok {
		return
	}
	rng, ok := h.timeRange(w, r)
	if !ok {
		return
	}
	m, err := h.uc.ServiceMetrics(r.Context(), id, rng)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handlers) ServiceTrend(w http.ResponseWriter, r *http.Request) {
	id, ok := h.serviceID(w, r)
	if !ok {
		return
	}
	rng, ok := h.timeRange(w, r)
	if !ok {
		return
	}
	buckets, err := h.uc.ServiceTrend(r.Context(), id, rng)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.uc.SystemOverview(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (h *Handlers) SystemHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := h.uc.SystemHealth(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
