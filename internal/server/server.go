// Package server provides the HTTP surface of the puppet: the JSON API, the
// camera preview stream, the live state websocket and the static viewer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/ayusman/cyberpuppet/internal/server/api"
	"github.com/ayusman/cyberpuppet/internal/store"
)

// Frames supplies preview JPEGs with a sequence number that grows with
// every new frame.
type Frames interface {
	LatestFrame() ([]byte, uint64)
}

// Config holds the server configuration. Routes whose dependency is nil
// are not registered.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Controller api.Controller
	Frames     Frames
	Hub        *Hub
	Log        zerolog.Logger
}

// Server is the HTTP handler tree.
type Server struct {
	config Config
	router chi.Router
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(hlog.NewHandler(s.config.Log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", d).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/gestures", api.ListGestures)
		r.Get("/gestures/{label}", api.GetGesture)

		if s.config.Controller != nil {
			h := api.NewStateHandler(s.config.Controller, s.config.Store, s.config.Log)
			r.Get("/state", h.State)
			r.Get("/settings", h.Settings)
			r.Put("/settings", h.UpdateSettings)
		}

		if s.config.Store != nil {
			h := api.NewHistoryHandler(s.config.Store)
			r.Get("/events", h.Events)
			r.Get("/sessions", h.Sessions)
			r.Get("/stats", h.Stats)
		}

		if s.config.Frames != nil {
			r.Get("/stream", NewStreamHandler(s.config.Frames).ServeHTTP)
		}

		if s.config.Hub != nil {
			r.Get("/live", s.config.Hub.ServeHTTP)
		}
	})

	if s.config.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if s.config.Hub != nil {
		s.config.Hub.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
