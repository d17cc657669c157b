package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vitalos/website/internal/http/middleware"
	"github.com/vitalos/website/internal/platform/mailer"
	"github.com/vitalos/website/pkg/config"
	"github.com/vitalos/website/pkg/events"
	"github.com/vitalos/website/pkg/logger"
	"github.com/vitalos/website/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	// Missing secrets do not stop the server; the handlers and /api/health report them.
	if missing := cfg.Missing(); len(missing) > 0 {
		logger.Warn("Investor access is not fully configured", "missing", missing)
	}

	var emailSvc mailer.Service
	if len(cfg.Mail.Missing()) == 0 {
		emailSvc, err = mailer.New(cfg.Mail)
		if err != nil {
			logger.Error("Failed to initialise mailer", "provider", cfg.Mail.Provider, "error", err)
			os.Exit(1)
		}
	}

	// Connect to event bus
	eventBus, err := events.New(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RedisURL != "" {
		counter, err := middleware.NewRedisCounter(cfg.RateLimit.RedisURL)
		if err != nil {
			logger.Error("Failed to configure rate limiter", "error", err)
			os.Exit(1)
		}
		defer counter.Close()
		limiter = middleware.NewRateLimiter(counter, middleware.RateLimitConfig{
			Requests:         cfg.RateLimit.Requests,
			Window:           cfg.RateLimit.Window,
			TrustedProxyHops: cfg.Server.TrustedProxyHops,
		})
		logger.Info("Rate limiting enabled", "requests", cfg.RateLimit.Requests, "window", cfg.RateLimit.Window.String())
	}

	r := newRouter(deps{
		cfg:      cfg,
		emailSvc: emailSvc,
		events:   eventBus,
		metrics:  metrics.New(),
		limiter:  limiter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting API server", "port", cfg.Server.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down API server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
