package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/juridica/jurigest/internal/config"
	"github.com/juridica/jurigest/internal/pipeline"
	"github.com/juridica/jurigest/internal/relatoria"
)

// Server is the HTTP API server for jurigest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	relatoria    *relatoria.Client
	log          *slog.Logger
	cfg          config.Config
	model        string
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, rel *relatoria.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		relatoria:    rel,
		log:          log,
		cfg:          cfg,
		model:        cfg.AnthropicModel,
	}
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/judgments", s.handleUpload)
		r.Post("/api/judgments/remote", s.handleRemote)
		r.Get("/api/judgments/{jobID}/status", s.handleStatus)

		r.Post("/api/segment", s.handleSegment)
		r.Post("/api/summary", s.handleSummary)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
