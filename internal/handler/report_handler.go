package handler

import (
	"net/http"
	"strconv"
)

func (rt *Router) handleAdherence(w http.ResponseWriter, r *http.Request) {
	days, err := rt.reports.WeeklyAdherence(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (rt *Router) handleExpiry(w http.ResponseWriter, r *http.Request) {
	projections, err := rt.reports.Expiry(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, projections)
}

func (rt *Router) handleRegisterSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := rt.search.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
