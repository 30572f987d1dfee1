package api

import (
	"guide-tracking-service/internal/api/handlers"
	"guide-tracking-service/internal/services"
	"net/http"

	"go.uber.org/zap"
)

type Options struct {
	// CSRFKey enables form protection when set (32 bytes).
	CSRFKey []byte
	// SecureCookies marks the CSRF cookie as HTTPS-only.
	SecureCookies bool
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(tracker *services.Tracker, log *zap.Logger, opts Options) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	page := &handlers.TrackerHandler{Tracker: tracker, Log: log}
	guides := &handlers.GuideHandler{Tracker: tracker, Log: log}

	mux.HandleFunc("/", page.Page)
	mux.HandleFunc("/guias", page.Submit)
	mux.HandleFunc("/acciones", page.Action)
	mux.HandleFunc("/api/guias", guides.List)
	mux.HandleFunc("/health", handlers.Health)

	middlewares := []func(http.Handler) http.Handler{requestID, logging(log)}
	if len(opts.CSRFKey) > 0 {
		middlewares = append(middlewares, protect(opts.CSRFKey, opts.SecureCookies, log))
	}

	return Chain(mux, middlewares...)
}
