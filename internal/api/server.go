// Package api serves the learner model over request/response JSON.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/skillpath/internal/logger"
	"github.com/abhisek/skillpath/internal/tutor"
)

// Config holds server configuration.
type Config struct {
	Port int
}

// Server is the read API in front of a tutor service.
type Server struct {
	cfg        Config
	svc        *tutor.Service
	log        *logger.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all routes registered.
func New(cfg Config, svc *tutor.Service, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{cfg: cfg, svc: svc, log: log.With("component", "api")}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/learners/{learner}/notebooks/{notebook}", func(r chi.Router) {
		r.Get("/skills", s.skillsHandler)
		r.Get("/due", s.dueHandler)
		r.Get("/next", s.nextHandler)
		r.Get("/recommendation", s.recommendationHandler)
		r.Get("/plan", s.planHandler)
		r.Post("/practice", s.practiceHandler)
		r.Get("/profile", s.latestProfileHandler)
		r.Post("/profile", s.computeProfileHandler)
		r.Get("/analytics/gain", s.gainHandler)
		r.Get("/analytics/retention", s.retentionHandler)
		r.Get("/analytics/transfer", s.transferHandler)
	})
	r.Get("/notebooks/{notebook}/cohort", s.cohortHandler)
	r.Get("/notebooks/{notebook}/settings", s.settingsHandler)

	return r
}

// requestLogger logs each request at debug with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
