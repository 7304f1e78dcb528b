package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/docreader/internal/config"
	"github.com/dgallion1/docreader/internal/events"
	"github.com/dgallion1/docreader/internal/registry"
)

// Server is the HTTP API server for the document reader.
type Server struct {
	router   chi.Router
	sessions *registry.Registry
	broker   *events.Broker
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *registry.Registry, broker *events.Broker, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		broker:   broker,
		log:      log,
		cfg:      cfg,
	}
	sessions.OnEvicted(func(id string) {
		log.Info("session closed", "session", id)
		broker.DropTopic(id)
	})
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.Auth.Enabled() {
			r.Use(AuthMiddleware(s.cfg.Auth.APIKey, s.log))
		}

		r.Get("/api/stats", s.handleStats)
		r.Post("/api/sessions", s.handleCreateSession)

		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.Post("/tabs/{index}/activate", s.handleActivateTab)
			r.Delete("/tabs/{index}", s.handleCloseTab)

			r.Put("/selection", s.handleSelection)
			r.Post("/highlights", s.handleApplyHighlight)
			r.Delete("/highlights", s.handleRemoveHighlight)
			r.Post("/keys", s.handleKey)

			r.Post("/documents", s.handleUpload)
			r.Get("/export", s.handleExport)
			r.Get("/events", s.handleEvents)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
