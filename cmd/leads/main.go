package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitalos/website/internal/leads"
	"github.com/vitalos/website/pkg/config"
	"github.com/vitalos/website/pkg/events"
	"github.com/vitalos/website/pkg/logger"
	mw "github.com/vitalos/website/pkg/middleware"
)

const queueGroup = "leads"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.NATS.URL == "" {
		logger.Error("NATS_URL is required for the leads consumer")
		os.Exit(1)
	}

	bus, err := events.NewNATSPublisher(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	recorder := leads.NewRecorder(logger.Default())
	err = bus.QueueSubscribe(events.InvestorAll, queueGroup, func(msg *events.Message) {
		if err := recorder.Handle(msg); err != nil {
			logger.Warn("Failed to record lead event", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		logger.Error("Failed to subscribe", "subject", events.InvestorAll, "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("leads"))
	r.Use(mw.Health)

	srv := &http.Server{
		Addr:        ":" + cfg.Leads.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	go func() {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		logger.Info("Shutting down leads consumer...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Leads consumer shutdown error", "error", err)
		}
	}()

	logger.Info("Starting leads consumer", "port", cfg.Leads.Port, "subject", events.InvestorAll)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Leads consumer error", "error", err)
		os.Exit(1)
	}
}
