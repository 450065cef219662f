package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// NewRouter wires the HTTP surface. Reads are open to any role; mutations
// require ADMIN; check triggers are for operators (ADMIN or POWER_USER).
func NewRouter(log *zap.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimiddleware.Recoverer)

	admin := requireRole(RoleAdmin)
	operator := requireRole(RoleAdmin, RolePowerUser)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.ListServices)
			r.With(admin).Post("/", h.CreateService)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetService)
				r.With(admin).Patch("/", h.UpdateService)
				r.With(admin).Delete("/", h.DeleteService)
				r.With(operator).Post("/check", h.CheckService)
				r.Get("/metrics", h.ServiceMetrics)
				r.Get("/trend", h.ServiceTrend)
			})
		})

		r.With(operator).Post("/checks/run", h.RunAllChecks)
		r.Get("/overview", h.Overview)
		r.Get("/health/system", h.SystemHealth)
	})

	return otelhttp.NewHandler(r, "servicehub-api")
}
