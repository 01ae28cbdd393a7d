package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes builds the router: middleware stack, CORS, and the
// analytics endpoints.
func SetupRoutes(h *Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/trend", h.GetTrend)
		r.Get("/insights", h.GetInsights)

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/revenue", h.GetRevenueMetrics)
			r.Get("/orders", h.GetOrderMetrics)
			r.Get("/categories", h.GetCategoryMetrics)
			r.Get("/geography", h.GetGeographyMetrics)
			r.Get("/delivery", h.GetDeliveryMetrics)
			r.Get("/satisfaction", h.GetSatisfactionMetrics)
		})
	})

	return r
}
