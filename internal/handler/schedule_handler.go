package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/service"
)

type scheduleRequest struct {
	MedicineID string           `json:"medicine_id"`
	Time       string           `json:"time"`
	Amount     float64          `json:"amount"`
	DaysOfWeek []domain.Weekday `json:"days_of_week,omitempty"`
}

func (req scheduleRequest) input() service.ScheduleInput {
	return service.ScheduleInput{
		MedicineID: req.MedicineID,
		Time:       req.Time,
		Amount:     req.Amount,
		DaysOfWeek: req.DaysOfWeek,
	}
}

func (rt *Router) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sched, err := rt.schedules.Create(r.Context(), userFrom(r.Context()).ID, req.input())
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sched)
}

func (rt *Router) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := rt.schedules.Get(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (rt *Router) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sched, err := rt.schedules.Update(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (rt *Router) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := rt.schedules.Delete(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	scheds, err := rt.schedules.List(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, scheds)
}
