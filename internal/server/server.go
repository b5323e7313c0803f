// Package server exposes the dialogue over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"eventaide/internal/common/config"
	"eventaide/internal/services/dialogue"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

type Server struct {
	router   *chi.Mux
	cfg      config.ServerConfig
	dialogue Responder
	cache    Pinger
	logger   Logger
}

func New(cfg config.ServerConfig, deps Dependencies) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		cfg:      cfg,
		dialogue: deps.Dialogue,
		cache:    deps.Cache,
		logger:   deps.Logger,
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(requestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.accessLog)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/ready", s.handleReady)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/api/welcome", s.handleWelcome)
	s.router.Post("/api/chat", s.handleChat)
}

func (s *Server) Router() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(s.cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(s.cfg.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Address})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := config.GetDuration(s.cfg.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("http server shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.cache.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ChatResponse{
		Reply:     dialogue.Welcome,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFrom(r.Context())

	var req ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.logger.Warn("invalid chat request", map[string]interface{}{
			"requestId": reqID,
			"error":     err.Error(),
		})
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body", RequestID: reqID})
		return
	}

	reply := s.dialogue.Respond(r.Context(), req.Message, req.History)
	s.logger.Debug("chat turn answered", map[string]interface{}{
		"requestId": reqID,
		"state":     reply.State,
		"outcome":   reply.Outcome,
		"message":   strings.TrimSpace(req.Message),
	})

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply.Text, RequestID: reqID})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
