// Package http exposes health, metrics, event ingest and notification preview.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lmco/eurekastreams/internal/pkg/circuitbreaker"
)

type RouterOptions struct {
	AllowedOrigins   []string
	MaxBodyBytes     int64
	RequestTimeout   time.Duration
	BreakerThreshold int
	BreakerTimeout   time.Duration
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	breaker := circuitbreaker.NewBreaker(opts.BreakerThreshold, opts.BreakerTimeout, 1)
	r.Route("/v1", func(r chi.Router) {
		r.Use(MaxBodySizeMiddleware(opts.MaxBodyBytes))
		r.Use(TimeoutMiddleware(opts.RequestTimeout))
		r.Use(CircuitBreakerMiddleware(breaker, opts.BreakerTimeout))

		r.Get("/event-types", h.ListEventTypes)
		r.Post("/events", h.IngestEvent)
		r.Post("/notifications/preview", h.PreviewNotifications)
		r.Post("/shares/validate", h.ValidateShare)
	})

	return otelhttp.NewHandler(r, "notifier.http")
}
