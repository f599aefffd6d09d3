package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/jpereira/go-travel-assistant/internal/api/airports"
	"github.com/jpereira/go-travel-assistant/internal/api/chat"
)

// Config contains the handlers needed for the router setup.
type Config struct {
	ChatHandler     *chat.Handler
	AirportsHandler *airports.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied
// before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	// The assistant is meant to sit behind arbitrary frontends.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Travel Assistant API. Use POST /api/v1/chat."))
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", cfg.ChatHandler.HandleChat)
		r.Get("/airports/{code}", cfg.AirportsHandler.GetByCode)
	})

	return r
}
