// package server exposes the record catalog over HTTP with gin
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/desertthunder/discos/internal/services"
	"github.com/desertthunder/discos/internal/shared"
)

const shutdownTimeout = 5 * time.Second

// Server handles HTTP requests for the record catalog
type Server struct {
	cfg     shared.ServerConfig
	catalog *services.CatalogService
	logger  *log.Logger
	router  *gin.Engine
}

// New creates a Server with its middleware stack and routes registered
func New(cfg shared.ServerConfig, catalog *services.CatalogService, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		logger:  shared.WithLogger(logger, "component", "http"),
		router:  gin.New(),
	}

	s.setupRoutes()
	return s
}

// Handler returns the router as an [http.Handler]
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
