package rest

import (
	"net/http"

	"plantdb/application/services"
	"plantdb/infrastructure/config"
	"plantdb/interfaces/http/rest/handlers"
	"plantdb/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	service *services.LookupService
	config  *config.Config
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(service *services.LookupService, cfg *config.Config, logger *zap.Logger) *Router {
	return &Router{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "x-api-key"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)

	router.Route("/api/v1", func(r chi.Router) {
		searchHandler := handlers.NewSearchHandler(rt.service, rt.logger)
		r.Get("/search", searchHandler.Search)

		plantHandler := handlers.NewPlantHandler(rt.service, rt.logger)
		r.Route("/plants", func(r chi.Router) {
			r.Get("/{plantID}", plantHandler.GetPlant)

			// Mutations require the API key when one is configured
			r.Group(func(r chi.Router) {
				r.Use(middleware.APIKey(rt.config.APIKey, rt.logger))
				r.Post("/", plantHandler.CreatePlant)
				r.Put("/{plantID}", plantHandler.UpdatePlant)
				r.Delete("/{plantID}", plantHandler.DeletePlant)
				r.Post("/generate", plantHandler.GeneratePlant)
			})
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
