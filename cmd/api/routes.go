package main

import (
	"context"
	"net/http"
	"time"

	"dsfrexample/internal/author"
	"dsfrexample/internal/config"
	"dsfrexample/internal/httpx"
	"dsfrexample/internal/platform/metrics"
)

const formRoute = "/forms/"

// pinger reports whether the backing store is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

// newRouter registers every route and wraps them with the middleware stack.
func newRouter(cfg config.Config, handler *author.HTTPHandler, store pinger, m *metrics.Metrics, limiter *httpx.RateLimitMiddleware) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.Text(w, http.StatusOK, "ok")
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			httpx.Error(w, r, http.StatusServiceUnavailable, "db not ready")
			return
		}
		httpx.Text(w, http.StatusOK, "ready")
	})
	router.Handle("/metrics", m.Handler())

	form := httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(handler.Show),
		http.MethodPost: http.HandlerFunc(handler.Submit),
	})
	form = httpx.Chain(form,
		limiter.Middleware,
		httpx.CSRFMiddleware(cfg.CSRFSecret, cfg.CSRFTTL),
	)
	router.Handle(formRoute+"{$}", m.Instrument(formRoute, form))
	router.Handle("/forms", http.RedirectHandler(formRoute, http.StatusMovedPermanently))

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}
