package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/UzairFarooq1/NXS-jobcard/internal/handler"
	"github.com/UzairFarooq1/NXS-jobcard/internal/middleware"
)

// Config holds the configuration for creating the API router.
type Config struct {
	Handler        *handler.Handler
	JobCardHandler *handler.JobCardHandler
	PDFHandler     *handler.PDFHandler
	StatsHandler   *handler.StatsHandler
	StaticDir      string
}

// New creates and configures the submission service HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	// Locally stored attachments (LocalUploader) are served from here.
	if cfg.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	// PDF download endpoint. Kept outside /api/v1 for backwards
	// compatibility with existing download links.
	if cfg.PDFHandler != nil {
		r.Get("/api/pdf", cfg.PDFHandler.MissingID)
		r.Get("/api/pdf/{id}", cfg.PDFHandler.Download)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
		}

		if cfg.JobCardHandler != nil {
			r.Route("/jobcards", func(r chi.Router) {
				r.Post("/", cfg.JobCardHandler.Submit)
				r.Get("/", cfg.JobCardHandler.List)
				r.Get("/{id}", cfg.JobCardHandler.GetByID)
			})
		}

		if cfg.StatsHandler != nil {
			r.Get("/stats", cfg.StatsHandler.GetStats)
		}
	})

	return r
}
