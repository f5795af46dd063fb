// Package api exposes the document question-answering service over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"docchat/internal/config"
	"docchat/internal/llm"
	"docchat/internal/retrieve"
	"docchat/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docchat.
type Server struct {
	router    chi.Router
	sessions  *session.Store
	retriever *retrieve.Retriever
	chat      *llm.Client
	stats     *llm.Stats
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Store, retriever *retrieve.Retriever, chat *llm.Client, stats *llm.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions:  sessions,
		retriever: retriever,
		chat:      chat,
		stats:     stats,
		log:       log,
		cfg:       cfg,
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

		r.Post("/api/sessions", s.handleCreateSession)
		r.Get("/api/sessions/{sessionID}", s.handleSessionSummary)
		r.Delete("/api/sessions/{sessionID}", s.handleDeleteSession)

		r.Post("/api/sessions/{sessionID}/document", s.handleUploadDocument)
		r.Get("/api/sessions/{sessionID}/structure", s.handleStructure)
		r.Get("/api/sessions/{sessionID}/map", s.handleMap)
		r.Post("/api/sessions/{sessionID}/ask", s.handleAsk)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
