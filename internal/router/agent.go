package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/UzairFarooq1/NXS-jobcard/internal/handler"
	"github.com/UzairFarooq1/NXS-jobcard/internal/middleware"
)

// AgentConfig holds the configuration for creating the agent's local
// router.
type AgentConfig struct {
	AgentHandler *handler.AgentHandler
}

// NewAgent creates the router for the agent's local API. The wizard UI
// runs in a browser on the same device, so CORS stays open.
func NewAgent(cfg AgentConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/submit", cfg.AgentHandler.Submit)
		r.Get("/status", cfg.AgentHandler.Status)
		r.Post("/sync", cfg.AgentHandler.Sync)
		r.Route("/queue", func(r chi.Router) {
			r.Get("/", cfg.AgentHandler.ListQueue)
			r.Delete("/{id}", cfg.AgentHandler.DeleteQueued)
		})
	})

	return r
}
