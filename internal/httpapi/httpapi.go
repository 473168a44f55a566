// Package httpapi exposes the focus timer on a loopback HTTP API so other
// dashboard widgets can drive it.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/core/model"
	"aetheris/internal/ui/display"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// Timer is the part of the engine the API drives.
type Timer interface {
	Start()
	Pause()
	Reset()
	Snapshot() focustimer.Snapshot
	Remaining() int
}

// TimerResponse is the JSON body describing the timer.
type TimerResponse struct {
	Mode              string  `json:"mode"`
	SessionsCompleted int     `json:"sessionsCompleted"`
	IsRunning         bool    `json:"isRunning"`
	RemainingSeconds  int     `json:"remainingSeconds"`
	Display           string  `json:"display"`
	Deadline          *string `json:"deadline"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the timer API.
type Server struct {
	timer      Timer
	router     *chi.Mux
	httpServer *http.Server
}

// New creates a Server listening on addr.
func New(addr string, timer Timer) *Server {
	s := &Server{
		timer:  timer,
		router: chi.NewRouter(),
	}
	s.router.Use(middleware.Recoverer)
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Route("/timer", func(r chi.Router) {
		r.Get("/", s.handleGet)
		r.Post("/{action}", s.handleAction)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully. The API
// is unauthenticated, so addresses other than loopback are refused with
// model.ErrNotLoopback.
func (s *Server) Run(ctx context.Context) error {
	if err := model.CheckLoopback(s.httpServer.Addr); err != nil {
		return fmt.Errorf("http api: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http api: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.describe())
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "start":
		s.timer.Start()
	case "pause":
		s.timer.Pause()
	case "reset":
		s.timer.Reset()
	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown action"})
		return
	}
	writeJSON(w, http.StatusOK, s.describe())
}

func (s *Server) describe() TimerResponse {
	snapshot := s.timer.Snapshot()
	remaining := s.timer.Remaining()

	response := TimerResponse{
		Mode:              string(snapshot.Mode),
		SessionsCompleted: snapshot.SessionsCompleted,
		IsRunning:         snapshot.IsRunning,
		RemainingSeconds:  remaining,
		Display:           display.FormatClock(remaining),
	}
	if snapshot.IsRunning {
		deadline := snapshot.Deadline.UTC().Format(time.RFC3339)
		response.Deadline = &deadline
	}
	return response
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
