package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prn-tf/medtrack/internal/service"
)

type recordDoseRequest struct {
	MedicineID    string  `json:"medicine_id"`
	Amount        float64 `json:"amount"`
	ScheduledTime string  `json:"scheduled_time,omitempty"`

	// At is the RFC 3339 timestamp the dose was taken; empty means now.
	At string `json:"at,omitempty"`
}

func (rt *Router) handleRecordDose(w http.ResponseWriter, r *http.Request) {
	var req recordDoseRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	input := service.RecordInput{
		MedicineID:    req.MedicineID,
		Amount:        req.Amount,
		ScheduledTime: req.ScheduledTime,
	}
	if req.At != "" {
		at, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid timestamp"})
			return
		}
		input.At = at
	}

	dosage, err := rt.dosages.Record(r.Context(), userFrom(r.Context()).ID, input)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dosage)
}

func (rt *Router) handleDeleteDosage(w http.ResponseWriter, r *http.Request) {
	if err := rt.dosages.Delete(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleDosageHistory(w http.ResponseWriter, r *http.Request) {
	history, err := rt.dosages.History(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
