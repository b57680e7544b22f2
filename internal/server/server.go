// Package server exposes the topic-search service over HTTP for
// non-terminal clients. Routes mirror what the TUI can do: generate,
// sessions, similarity search, analytics, health, and the feed proxy.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/irwanphan/voice-news-summary/internal/generate"
	"github.com/irwanphan/voice-news-summary/internal/store"
)

// Generator answers topic searches; *generate.Service in production.
type Generator interface {
	Generate(ctx context.Context, topic, sessionID string) (*generate.Result, error)
}

type Server struct {
	httpServer *http.Server
	router     *mux.Router
	store      *store.Store
	generator  Generator
	log        zerolog.Logger
}

func New(addr string, st *store.Store, gen Generator, proxyHandler http.Handler, log zerolog.Logger) *Server {
	s := &Server{
		store:     st,
		generator: gen,
		log:       log,
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/similar", s.handleSimilar).Methods(http.MethodGet)
	api.HandleFunc("/session", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/session/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/analytics", s.handleAnalytics).Methods(http.MethodGet)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if proxyHandler != nil {
		api.Handle("/proxy", proxyHandler).Methods(http.MethodGet, http.MethodOptions)
	}

	s.router = r
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the router; used by tests.
func (s *Server) Handler() http.Handler { return s.router }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
