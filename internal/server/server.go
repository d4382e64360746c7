package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cortexai/sqlconsole/internal/chart"
	"github.com/cortexai/sqlconsole/internal/config"
	"github.com/cortexai/sqlconsole/internal/controller"
	"github.com/cortexai/sqlconsole/internal/handler"
	"github.com/cortexai/sqlconsole/internal/view"
	"github.com/rs/zerolog/log"
)

// Deps are the console components the preview server exposes
type Deps struct {
	Controller *controller.Controller
	Screen     *view.Screen
	Charts     *chart.Manager
	Backend    handler.HealthChecker
}

// Server is the preview HTTP server
type Server struct {
	cfg  *config.Config
	http *http.Server
}

func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Controller == nil || deps.Screen == nil || deps.Charts == nil {
		return nil, fmt.Errorf("preview server: controller, screen and charts are required")
	}

	s := &Server{cfg: cfg}
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.setupRoutes(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Addr() string {
	return s.http.Addr
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("preview server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
