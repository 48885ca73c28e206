package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// promhttp negotiates its own compression
	if h.metrics != nil {
		router.Method("GET", "/metrics", h.metrics.Handler())
	}

	router.Group(func(r chi.Router) {
		r.Use(withGZip)

		// routes without authorization
		r.Get("/api/version", h.getServerVersion)
		r.Post("/api/user/register", h.register)
		r.Post("/api/auth/authenticate", h.authenticate)
		r.Post("/api/contact", h.submitContact)

		// routes for session holders
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Post("/api/activity", h.logActivity)
			r.Get("/api/limits", h.checkLimits)
		})

		// routes for operators
		if h.adminKeyHash != "" {
			r.Group(func(r chi.Router) {
				r.Use(h.checkAdminKey)
				r.Post("/api/admin/ban", h.ban)
				r.Get("/api/admin/stats", h.stats)
				r.Post("/api/admin/backup", h.backup)
				r.Get("/api/admin/contact", h.listContact)
			})
		}
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
