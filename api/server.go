/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. AccessLog:  Structured request logging (zerolog)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the booking frontend

ROUTE GROUPS:
  /api/pricing-configs/*   Pricing configuration and quotes
  /api/departures/*        Departures, availability checks
  /api/assignments/*       Vehicle and guide blocks
  /api/bookings/*          Seat bookings
  /api/availability/*      Monitor runs
  /api/scenarios/*         Demo scenarios
  /api/health              Liveness

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(AccessLog(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/pricing-configs", func(r chi.Router) {
			r.Get("/", h.ListPricingConfigs)
			r.Post("/", h.CreatePricingConfig)
			r.Get("/{id}", h.GetPricingConfig)
			r.Post("/{id}/quote", h.QuotePricingConfig)
		})

		r.Route("/departures", func(r chi.Router) {
			r.Get("/", h.ListDepartures)
			r.Post("/", h.CreateDeparture)
			r.Get("/{id}", h.GetDeparture)
			r.Post("/{id}/check", h.CheckDeparture)
			r.Get("/{id}/bookings", h.ListDepartureBookings)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", h.ListAssignments)
			r.Post("/", h.CreateAssignment)
			r.Delete("/{id}", h.DeleteAssignment)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", h.CreateBooking)
			r.Get("/{id}", h.GetBooking)
		})

		r.Route("/availability", func(r chi.Router) {
			r.Get("/runs", h.ListAvailabilityRuns)
			r.Post("/runs", h.TriggerAvailabilityRun)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
