package rest

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
	domainErrors "github.com/davidleathers/muletrace-analytics/internal/domain/errors"
	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/cache"
	"github.com/davidleathers/muletrace-analytics/internal/metrics"
	"github.com/davidleathers/muletrace-analytics/internal/service/enrichment"
)

// maxPayloadBytes bounds request bodies; detection payloads for even large
// case files stay well under this.
const maxPayloadBytes = 16 << 20

// Handler serves the analytics API.
type Handler struct {
	enricher enrichment.Service
	cache    cache.Cache
	logger   *slog.Logger
	metrics  *metrics.Registry
	version  string
}

// NewHandler creates the API handler. cache and metrics may be nil.
func NewHandler(enricher enrichment.Service, resultCache cache.Cache, logger *slog.Logger, reg *metrics.Registry, version string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		enricher: enricher,
		cache:    resultCache,
		logger:   logger,
		metrics:  reg,
		version:  version,
	}
}

// handleEnrich accepts an upstream detection payload and returns the derived
// presentation structures.
func (h *Handler) handleEnrich(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		writeError(w, r, domainErrors.NewValidationError("BODY_READ_FAILED", "could not read request body").WithCause(err))
		return
	}
	if len(body) == 0 {
		writeError(w, r, domainErrors.ErrEmptyPayload)
		return
	}

	payload, err := detection.ParsePayload(body)
	if err != nil {
		if h.metrics != nil {
			h.metrics.PayloadsFailed.Add(r.Context(), 1)
		}
		writeError(w, r, err)
		return
	}

	result, err := h.enricher.Enrich(r.Context(), payload)
	if err != nil {
		if h.metrics != nil {
			h.metrics.PayloadsFailed.Add(r.Context(), 1)
		}
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordAPIRequest(r.Context(), "/api/v1/enrich", http.StatusOK, time.Since(start))
	}

	writeData(w, r, http.StatusOK, result)
}

// handleHealth reports liveness and the state of the result cache.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:       "healthy",
		Version:      h.version,
		Dependencies: map[string]string{},
	}

	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			// The cache is an optimization; a dead Redis degrades the
			// service, it does not take it down.
			resp.Status = "degraded"
			resp.Dependencies["redis"] = "unreachable"
			h.logger.WarnContext(r.Context(), "health check: redis unreachable", "error", err)
		} else {
			resp.Dependencies["redis"] = "ok"
		}
	}

	writeData(w, r, http.StatusOK, resp)
}
