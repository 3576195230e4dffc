package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/myenglish-reader/internal/config"
	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
	"github.com/heartmarshall/myenglish-reader/internal/transport/graphql"
	"github.com/heartmarshall/myenglish-reader/internal/transport/middleware"
	"github.com/heartmarshall/myenglish-reader/internal/transport/rest"
)

// OutcomeLog is the audit trail of translation outcomes. PostgreSQL and
// the embedded bolt store both satisfy it.
type OutcomeLog interface {
	Record(ctx context.Context, outcome domain.TranslationOutcome) error
	Stats(ctx context.Context) (domain.TranslationOutcomeStats, error)
}

// Deps are the runtime dependencies the HTTP surface is built from.
// DB and Outcomes are nil when the outcome log is disabled.
type Deps struct {
	Translator   *translation.Service
	DB           interface{ Ping(ctx context.Context) error }
	Outcomes     OutcomeLog
	ProviderName string
	Version      string
}

// Router is the fully wrapped HTTP handler. Close releases the rate
// limiter's background goroutine.
type Router struct {
	http.Handler
	limiter *middleware.RateLimiter
}

// Close stops background work owned by the router.
func (r *Router) Close() {
	r.limiter.Stop()
}

// NewRouter registers all routes and wraps them in the middleware chain:
// Recovery, RequestID, Logger, CORS, then rate limiting on /api/.
func NewRouter(cfg *config.Config, deps Deps, logger *slog.Logger) *Router {
	health := rest.NewHealthHandler(deps.DB, deps.Outcomes, deps.ProviderName, deps.Version, logger)
	translate := rest.NewTranslateHandler(deps.Translator, logger, cfg.Server.MaxBodyBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("POST /api/translate", translate.Translate)
	mux.Handle("POST /api/query", graphql.NewHandler(deps.Translator, logger))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.PathPrefix("/api/", limiter.Limit(cfg.RateLimit.TranslatePerMinute)),
	)(mux)

	return &Router{Handler: handler, limiter: limiter}
}
