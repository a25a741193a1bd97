package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/randomtoy/tarot-spreads/internal/adapters/http"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve spread sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := newService(ctx, cfg, cfg.TouchSlop, logger)
		if err != nil {
			return err
		}

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		e.Use(httpadapter.RequestIDMiddleware())
		e.Use(httpadapter.LoggingMiddleware(logger))

		httpadapter.NewHandler(svc).Register(e)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("starting server", "addr", cfg.HTTPAddr, "placement", cfg.PlacementMode, "llm", cfg.LLMProvider)
			if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			svc.RunEviction(gctx, evictionInterval(cfg.SessionIdleTTL))
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

// evictionInterval sweeps a few times per TTL, at most once a second.
func evictionInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Second)
}
