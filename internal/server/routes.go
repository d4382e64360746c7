package server

import (
	"net/http"

	"github.com/cortexai/sqlconsole/internal/handler"
	"github.com/cortexai/sqlconsole/internal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) setupRoutes(deps Deps) http.Handler {
	cfg := s.cfg

	healthH := handler.NewHealthHandler(deps.Backend)
	consoleH := handler.NewConsoleHandler(deps.Controller, deps.Screen, deps.Charts)

	log.Info().
		Str("backend_url", cfg.BackendURL).
		Bool("discard_stale", cfg.DiscardStale).
		Str("chart_format", cfg.ChartFormat).
		Int("rate_limit_per_minute", cfg.RateLimitPerMinute).
		Msg("preview server configuration")

	r := chi.NewRouter()

	// Core middleware. Recovery sits inside Logging so a panic is logged with
	// the request's fields and the request line records the 500.
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", consoleH.View)
		r.Get("/chart", consoleH.Chart)

		r.Group(func(r chi.Router) {
			if cfg.RateLimitPerMinute > 0 {
				r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
			}
			r.Post("/ask", consoleH.Ask)
		})
	})

	return r
}
