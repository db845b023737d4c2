package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/lunar-calendar-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/lunar/today?tz=
//	GET    /api/v1/lunar/date/{date}
//	GET    /api/v1/lunar/range?start=&end=
//	GET    /api/v1/solar?year=&month=&day=&leap=
//	GET    /api/v1/terms/{year}
//	GET    /api/v1/terms/{year}/ics?festivals=
//	GET    /api/v1/grid/{year}/{month}
//	GET    /api/v1/week/{date}
//	GET    /api/v1/admin/almanac
//	POST   /api/v1/admin/almanac/{year}
//	GET    /api/v1/admin/almanac/{year}/verify
//	DELETE /api/v1/admin/almanac/{year}
//
// Every localized endpoint accepts ?lang= or Accept-Language.
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeBadRequest)
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// ======================================================================
		// Public routes
		// ======================================================================
		r.Get("/lunar/today", handlers.GetToday)
		r.Get("/lunar/date/{date}", handlers.GetDate)
		r.Get("/lunar/range", handlers.GetRange)
		r.Get("/solar", handlers.GetSolar)

		r.Get("/terms/{year}", handlers.GetTerms)
		r.Get("/terms/{year}/ics", handlers.GetTermsICS)

		r.Get("/grid/{year}/{month}", handlers.GetGrid)
		r.Get("/week/{date}", handlers.GetWeek)

		// ======================================================================
		// Admin routes (API key)
		// ======================================================================
		r.Route("/admin/almanac", func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))

			r.Get("/", handlers.GetAlmanacStatus)
			r.Post("/{year}", handlers.BuildAlmanacYear)
			r.Delete("/{year}", handlers.DeleteAlmanacYear)
			r.Get("/{year}/verify", handlers.VerifyAlmanacYear)
		})
	})

	return r
}
