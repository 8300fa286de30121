package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jengzang/iceberg-dashboard/internal/api"
	"github.com/jengzang/iceberg-dashboard/internal/auth"
	"github.com/jengzang/iceberg-dashboard/internal/config"
	"github.com/jengzang/iceberg-dashboard/internal/database"
	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/middleware"
	"github.com/jengzang/iceberg-dashboard/internal/repository"
	"github.com/jengzang/iceberg-dashboard/internal/session"
)

// serveCmd runs the HTTP gateway until SIGINT or SIGTERM
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP server",
	RunE:  runServe,
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

func newUpstream(cfg *config.Config) *icebergapi.Client {
	return icebergapi.New(icebergapi.Config{
		BaseURL:        cfg.APIBaseURL(),
		Timeout:        cfg.API.Timeout,
		BreakerTimeout: cfg.API.BreakerTimeout,
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	if err := database.Init(database.Config{Path: cfg.Database.Path}); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	tokens, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTTL)
	if err != nil {
		return err
	}

	upstream := newUpstream(cfg)
	sessions := session.NewManager(repository.NewSessionRepository(database.GetDB()), tokens, upstream)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.RunSweeper(ctx, cfg.Security.SweepInterval)

	var limiter *middleware.RateLimiter
	if cfg.Security.RateLimitReqs > 0 {
		limiter = middleware.NewRateLimiter(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)
		go limiter.Run(5*time.Minute, ctx.Done())
	}

	router := api.SetupRouter(cfg, api.Dependencies{
		API:      upstream,
		Sessions: sessions,
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Port).Str("upstream", cfg.APIBaseURL()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("server failed")
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
