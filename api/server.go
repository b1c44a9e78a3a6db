/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/reservations/*   Submit, list, remove reservations
  /api/resources/*      Hierarchy CRUD and scope configs
  /api/scenarios/*      Demo data loaders (dev only)

SECURITY NOTE:
  No authentication middleware; authorization is explicitly outside the
  engine's scope. Front it with an authenticating proxy in production.

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
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", h.SubmitReservation)
			r.Get("/", h.ListReservations)
			r.Delete("/{id}", h.DeleteReservation)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/tree", h.GetResourceTree)
			r.Post("/", h.CreateResource)
			r.Put("/{id}", h.RenameResource)
			r.Delete("/{id}", h.DeleteResource)
			r.Get("/{id}/configs", h.ListConfigs)
			r.Post("/{id}/configs", h.AttachConfig)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
