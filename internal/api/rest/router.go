package rest

import (
	"net/http"

	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/config"
)

// newRouter wires routes and the middleware chain. Order matters: recovery
// runs outermost so even middleware panics produce a clean 500.
func newRouter(h *Handler, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/enrich", h.handleEnrich)
	mux.HandleFunc("GET /health", h.handleHealth)

	return chain(mux,
		recoveryMiddleware,
		requestIDMiddleware,
		loggingMiddleware(h.logger),
		corsMiddleware(cfg.Analytics.AllowedOrigins),
		rateLimitMiddleware(cfg.Security.RateLimit),
		authMiddleware(cfg.Security.JWTSecret),
	)
}
