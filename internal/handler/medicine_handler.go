package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prn-tf/medtrack/internal/service"
)

type medicineRequest struct {
	Name        string  `json:"name"`
	Dose        float64 `json:"dose"`
	Unit        string  `json:"unit"`
	Stock       float64 `json:"stock"`
	Description string  `json:"description,omitempty"`
	LeafletURL  string  `json:"leaflet_url,omitempty"`
}

func (req medicineRequest) input() service.MedicineInput {
	return service.MedicineInput{
		Name:        req.Name,
		Dose:        req.Dose,
		Unit:        req.Unit,
		Stock:       req.Stock,
		Description: req.Description,
		LeafletURL:  req.LeafletURL,
	}
}

func (rt *Router) handleCreateMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	med, err := rt.medicines.Create(r.Context(), userFrom(r.Context()).ID, req.input())
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, med)
}

func (rt *Router) handleGetMedicine(w http.ResponseWriter, r *http.Request) {
	med, err := rt.medicines.Get(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

func (rt *Router) handleUpdateMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	med, err := rt.medicines.Update(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

func (rt *Router) handleDeleteMedicine(w http.ResponseWriter, r *http.Request) {
	if err := rt.medicines.Delete(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleListMedicines(w http.ResponseWriter, r *http.Request) {
	meds, err := rt.medicines.List(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, meds)
}

type addStockRequest struct {
	Delta float64 `json:"delta"`
}

func (rt *Router) handleAddStock(w http.ResponseWriter, r *http.Request) {
	var req addStockRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	med, err := rt.medicines.AddStock(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

func (rt *Router) handleLowStock(w http.ResponseWriter, r *http.Request) {
	var threshold float64
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid threshold"})
			return
		}
		threshold = parsed
	}

	meds, err := rt.medicines.LowStock(r.Context(), userFrom(r.Context()).ID, threshold)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, meds)
}
