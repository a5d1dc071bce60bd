package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jelyk/wortschatz-backend/internal/transport/middleware"
)

// RouterDeps bundles the handlers the router mounts.
type RouterDeps struct {
	Health *HealthHandler
	Words  *WordHandler
	View   *ViewHandler
	Logger *slog.Logger
}

// NewRouter builds the HTTP handler tree with the standard middleware
// chain applied to every route.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /live", deps.Health.Live)

	mux.HandleFunc("GET /words/{id}", deps.Words.Get)
	mux.HandleFunc("PUT /words/{id}", deps.Words.Save)
	mux.HandleFunc("GET /words/{id}/view", deps.View.View)

	mux.Handle("GET /metrics", promhttp.Handler())

	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(deps.Logger),
		middleware.Logger(deps.Logger),
		middleware.Metrics(),
	)

	return chain(mux)
}
