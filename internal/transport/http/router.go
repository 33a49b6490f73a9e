// Package httptransport is the thin HTTP layer: it decodes requests,
// delegates to domain services, and encodes responses. No business logic
// lives here.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"samajsetu/internal/admin"
	"samajsetu/internal/auth"
	"samajsetu/internal/conversation"
	"samajsetu/internal/platform/metrics"
	"samajsetu/internal/platform/middleware"
	"samajsetu/internal/transport/whatsapp"
	"samajsetu/pkg/httputil"
)

// RouterConfig carries everything the HTTP layer needs.
type RouterConfig struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Engine       *conversation.Engine
	Sender       whatsapp.Sender
	SystemNumber string

	Auth      *auth.Service
	Validator middleware.JWTValidator
	Admin     *admin.Service
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	webhook := NewWebhookHandler(cfg.Engine, cfg.Sender, cfg.SystemNumber, cfg.Logger, cfg.Metrics)
	authHandler := NewAuthHandler(cfg.Auth, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.Admin, cfg.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/whatsapp", webhook.Register)
		api.Route("/auth", authHandler.Register)
		api.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
			adminHandler.Register(ar)
		})
	})

	return r
}
