package main

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/sdko-org/vertical-padding/internal/config"
	"github.com/sdko-org/vertical-padding/internal/handlers"
	httpserver "github.com/sdko-org/vertical-padding/internal/http"
	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP server exposing POST /padStop plus health, readiness and metrics endpoints.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	a, err := newApp(cfg, logger, metrics, false)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.WithError(err).Warn("Error during cleanup")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := handlers.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow, cfg.TrustProxyHeaders)
	go limiter.Cleanup(ctx)

	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware(logger, cfg.TrustProxyHeaders))
	r.Use(limiter.Middleware)
	handlers.RegisterRoutes(r, handlers.NewPadStopHandler(logger, a.service), a.ready)

	srv, err := httpserver.New(logger, r, httpserver.Options{
		Addr:            net.JoinHostPort("", cfg.Port),
		TLSAddr:         net.JoinHostPort("", cfg.TLSPort),
		TLSSelfSigned:   cfg.TLSSelfSigned,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	err = srv.Run(ctx)
	logger.Info("Server stopped")
	return err
}

