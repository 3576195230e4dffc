package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
)

const healthCheckTimeout = 3 * time.Second

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// outcomeStats reports totals from the translation outcome log.
type outcomeStats interface {
	Stats(ctx context.Context) (domain.TranslationOutcomeStats, error)
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db       dbPinger
	stats    outcomeStats
	provider string
	version  string
	log      *slog.Logger
}

// NewHealthHandler creates a HealthHandler. db and stats are nil when the
// outcome log is not configured; the database component is then omitted.
func NewHealthHandler(db dbPinger, stats outcomeStats, provider, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		stats:    stats,
		provider: provider,
		version:  version,
		log:      logger.With("handler", "health"),
	}
}

// HealthResponse is the JSON response for /live, /ready and /health.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Outcomes   *OutcomeTotals        `json:"outcomes,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// OutcomeTotals mirrors domain.TranslationOutcomeStats on the wire.
type OutcomeTotals struct {
	Total        int `json:"total"`
	Fallbacks    int `json:"fallbacks"`
	WithWarnings int `json:"withWarnings"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 when the database (if any) answers, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:    "down",
				Timestamp: time.Now(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check: per-component status, version and
// outcome totals when the outcome log is configured.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	components := map[string]CompStatus{
		"llm": {Status: "ok", Detail: h.provider},
	}
	overallStatus := "ok"
	var totals *OutcomeTotals

	if h.db != nil {
		start := time.Now()
		err := h.db.Ping(ctx)
		latency := time.Since(start)

		if err != nil {
			components["database"] = CompStatus{Status: "down"}
			overallStatus = "down"
		} else {
			components["database"] = CompStatus{Status: "ok", Latency: latency.String()}
		}
	}

	if h.stats != nil && overallStatus == "ok" {
		s, err := h.stats.Stats(ctx)
		if err != nil {
			h.log.WarnContext(ctx, "outcome stats unavailable", slog.String("error", err.Error()))
		} else {
			totals = &OutcomeTotals{Total: s.Total, Fallbacks: s.Fallbacks, WithWarnings: s.WithWarnings}
		}
	}

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Outcomes:   totals,
		Timestamp:  time.Now(),
	})
}
