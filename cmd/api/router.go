package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vitalos/website/internal/http/handlers/demo"
	"github.com/vitalos/website/internal/http/handlers/health"
	"github.com/vitalos/website/internal/http/handlers/investor"
	"github.com/vitalos/website/internal/http/middleware"
	"github.com/vitalos/website/internal/platform/mailer"
	"github.com/vitalos/website/pkg/config"
	"github.com/vitalos/website/pkg/events"
	mw "github.com/vitalos/website/pkg/middleware"
	"github.com/vitalos/website/pkg/metrics"
)

type deps struct {
	cfg      *config.Config
	emailSvc mailer.Service
	events   events.Publisher
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter
}

func newRouter(d deps) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(chimw.Recoverer)
	r.Use(mw.CORS(d.cfg.Server.AllowedOrigins))
	r.Use(mw.Health)
	r.Use(mw.Metrics(d.metrics))

	access := investor.NewAccessHandler(d.cfg, d.emailSvc, d.events, d.metrics)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", health.NewHandler(d.cfg))
		r.Mount("/demo", demo.NewHandler().Routes())

		r.Group(func(r chi.Router) {
			if d.limiter != nil {
				r.Use(d.limiter.Middleware())
			}
			access.Register(r)
		})
	})

	return r
}
