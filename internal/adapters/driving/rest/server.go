package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Server serves the JSON API over HTTP.
type Server struct {
	ports *Ports
	token string
}

// NewServer creates a REST server with the given ports. When token is
// non-empty, every /api route requires a matching bearer token.
func NewServer(ports *Ports, token string) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	return &Server{ports: ports, token: token}, nil
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/entanglements", func(r chi.Router) {
			r.Get("/", s.handleListEntanglements)
			r.Post("/", s.handleCreateEntanglement)
			r.Get("/{id}", s.handleGetEntanglement)
			r.Get("/{id}/qupts", s.handleListQupts)
		})

		r.Route("/zoku", func(r chi.Router) {
			r.Get("/", s.handleListZoku)
			r.Post("/", s.handleCreateZoku)
		})

		r.Route("/sources", func(r chi.Router) {
			r.Get("/", s.handleListSources)
			r.Post("/", s.handleCreateSource)
			r.Get("/{id}", s.handleGetSource)
			r.Patch("/{id}", s.handleUpdateSource)
			r.Delete("/{id}", s.handleDeleteSource)
			r.Post("/{id}/sync", s.handleSyncSource)
		})

		r.Route("/jewels", func(r chi.Router) {
			r.Get("/", s.handleListJewels)
			r.Post("/", s.handleCreateJewel)
			r.Get("/{id}/usage", s.handleJewelUsage)
			r.Delete("/{id}", s.handleDeleteJewel)
		})

		r.Post("/qupts", s.handleCreateQupt)

		r.Post("/sync", s.handleSyncAll)
		r.Get("/sync/runs", s.handleListSyncRuns)
	})

	return r
}

// Run serves the API on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
