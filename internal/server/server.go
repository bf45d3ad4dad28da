// Package server exposes the search pipeline over HTTP. It owns only
// transport concerns; all search semantics live in internal/pipeline.
package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/candidate"
	"github.com/sphynx-hq/sphynx/internal/history"
)

const defaultAddress = ":8080"

// Searcher is the pipeline surface the server depends on.
type Searcher interface {
	Search(ctx context.Context, requirement string) (*candidate.Candidates, error)
}

type Config struct {
	Address string
}

type Server struct {
	httpServer *http.Server
	searcher   Searcher
	history    *history.Store
	logger     *zap.Logger
}

// New builds the server. The history store may be nil; the history
// endpoint then serves an empty list.
func New(cfg Config, searcher Searcher, store *history.Store, logger *zap.Logger) *Server {
	address := cfg.Address
	if address == "" {
		address = defaultAddress
	}

	s := &Server{
		searcher: searcher,
		history:  store,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/history", s.handleHistory)

	s.httpServer = &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
