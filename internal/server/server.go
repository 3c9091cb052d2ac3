// Package server exposes animations, the orchestrator and a chat completions
// pass-through over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/petasbytes/simplemath/internal/animation"
	"github.com/petasbytes/simplemath/internal/orchestrator"
	"github.com/petasbytes/simplemath/internal/settings"
)

// Config wires a Server. Animations and Settings are required.
type Config struct {
	Animations   *animation.LocalCreator
	Orchestrator *orchestrator.Orchestrator
	Settings     settings.Source
	// UpstreamTransport carries proxied chat completions; nil means http.DefaultTransport.
	UpstreamTransport http.RoundTripper
}

type Server struct {
	animations   *animation.LocalCreator
	orchestrator *orchestrator.Orchestrator
	settings     settings.Source
	proxy        http.Handler
	router       *mux.Router
}

func New(cfg Config) (*Server, error) {
	if cfg.Animations == nil || cfg.Settings == nil {
		return nil, errors.New("server: animations and settings are required")
	}
	s := &Server{
		animations:   cfg.Animations,
		orchestrator: cfg.Orchestrator,
		settings:     cfg.Settings,
	}
	s.proxy = newCompletionsProxy(cfg.Settings, cfg.UpstreamTransport)
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/api/p5/create", s.jsonCreateAnimation).Methods(http.MethodPost)
	r.HandleFunc("/api/p5/{id}", s.jsonGetAnimation).Methods(http.MethodGet)
	r.HandleFunc("/animation/{id}", s.htmlAnimation).Methods(http.MethodGet)
	r.Handle("/v1/chat/completions", s.proxy).Methods(http.MethodPost)
	r.HandleFunc("/api/chat", s.jsonChat).Methods(http.MethodPost)
	r.HandleFunc("/api/status", s.jsonStatus).Methods(http.MethodGet)
	r.HandleFunc("/health", s.jsonHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func respondWithJSON(statusCode int, w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

func failureResponse(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(statusCode, w, map[string]any{
		"success": false,
		"error":   message,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		log.WithFields(log.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Debug("request served")
	})
}
