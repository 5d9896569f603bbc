package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/medsearch"
	"github.com/prn-tf/medtrack/internal/service"
)

// Router wires the HTTP API.
type Router struct {
	accounts  *service.AccountService
	medicines *service.MedicineService
	schedules *service.ScheduleService
	dosages   *service.DosageService
	reports   *service.ReportService
	search    *medsearch.Service // nil when the register dataset is disabled
	logger    zerolog.Logger
}

// RouterConfig contains the dependencies of the router.
type RouterConfig struct {
	Accounts  *service.AccountService
	Medicines *service.MedicineService
	Schedules *service.ScheduleService
	Dosages   *service.DosageService
	Reports   *service.ReportService
	Search    *medsearch.Service
	Logger    zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		accounts:  cfg.Accounts,
		medicines: cfg.Medicines,
		schedules: cfg.Schedules,
		dosages:   cfg.Dosages,
		reports:   cfg.Reports,
		search:    cfg.Search,
		logger:    cfg.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(instrument)

	r.Get("/health", rt.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", rt.handleRegister)
		r.Post("/auth/login", rt.handleLogin)
		r.Post("/auth/activate", rt.handleActivate)
		r.Post("/auth/password-reset/request", rt.handleResetRequest)
		r.Post("/auth/password-reset/confirm", rt.handleResetConfirm)
		if rt.search != nil {
			r.Get("/register/search", rt.handleRegisterSearch)
		}

		// Session-authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(rt.authenticate)

			r.Post("/auth/logout", rt.handleLogout)
			r.Get("/profile", rt.handleGetProfile)
			r.Put("/profile", rt.handleUpdateProfile)

			r.Route("/medicines", func(r chi.Router) {
				r.Get("/", rt.handleListMedicines)
				r.Post("/", rt.handleCreateMedicine)
				r.Get("/low-stock", rt.handleLowStock)
				r.Get("/{id}", rt.handleGetMedicine)
				r.Put("/{id}", rt.handleUpdateMedicine)
				r.Delete("/{id}", rt.handleDeleteMedicine)
				r.Post("/{id}/stock", rt.handleAddStock)
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", rt.handleListSchedules)
				r.Post("/", rt.handleCreateSchedule)
				r.Get("/{id}", rt.handleGetSchedule)
				r.Put("/{id}", rt.handleUpdateSchedule)
				r.Delete("/{id}", rt.handleDeleteSchedule)
			})

			r.Route("/dosages", func(r chi.Router) {
				r.Get("/", rt.handleDosageHistory)
				r.Post("/", rt.handleRecordDose)
				r.Delete("/{id}", rt.handleDeleteDosage)
			})

			r.Get("/reports/adherence", rt.handleAdherence)
			r.Get("/reports/expiry", rt.handleExpiry)
		})
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
