package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/commerce-pulse/internal/config"
	"github.com/ignite/commerce-pulse/internal/dataset"
	"github.com/ignite/commerce-pulse/internal/pkg/logger"
)

// Server wraps the HTTP server for the analytics API.
type Server struct {
	cfg     *config.Config
	httpSrv *http.Server
	cache   *Cache
}

// NewServer wires the handlers and router over a loaded dataset.
func NewServer(tables *dataset.RawTables, cfg *config.Config) *Server {
	cache := NewCache(cfg.Cache)
	handlers := NewHandlers(tables, cfg, cache)
	router := SetupRoutes(handlers, cfg.Server.AllowedOrigins)

	return &Server{
		cfg:   cfg,
		cache: cache,
		httpSrv: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	logger.Info("analytics API listening", "addr", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and closes the cache.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.cache.Close(); err != nil {
		logger.Warn("cache close failed", "error", err.Error())
	}
	return s.httpSrv.Shutdown(ctx)
}
