package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/akave-ai/logaudit/internal/audit"
	"github.com/akave-ai/logaudit/internal/config"
	"github.com/akave-ai/logaudit/internal/handler"
	"github.com/akave-ai/logaudit/internal/logging"
	"github.com/akave-ai/logaudit/internal/parser"
)

// Server holds the Echo app and its configuration.
type Server struct {
	Echo   *echo.Echo
	Config *config.Config
	logger zerolog.Logger
}

// New builds the Echo server and registers routes.
func New(cfg *config.Config, registry *parser.Registry, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = time.Duration(cfg.Server.ReadTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.Server.WriteTimeout) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.Server.IdleTimeout) * time.Second

	e.Use(
		middleware.Recover(),
		middleware.BodyLimit(cfg.Server.MaxBodyBytes),
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:  true,
			LogURI:     true,
			LogStatus:  true,
			LogLatency: true,
			LogError:   true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				ev := logger.Info()
				if v.Error != nil {
					ev = logger.Warn().Err(v.Error)
				}
				ev.Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
				return nil
			},
		}),
	)

	h := &handler.AnalyzeHandler{
		Registry: registry,
		Settings: audit.SettingsFromConfig(cfg),
		Logger:   logging.Component(logger, "http"),
	}

	e.GET("/health", handler.Health)
	e.GET("/formats", h.ListFormats)
	e.GET("/formats/:name", h.GetFormat)
	e.POST("/analyze", h.Analyze)

	return &Server{Echo: e, Config: cfg, logger: logger}
}

// Start serves HTTP until the context is cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown")
		}
	}()

	addr := ":" + s.Config.Server.Port
	s.logger.Info().Str("addr", addr).Msg("listening")
	if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
