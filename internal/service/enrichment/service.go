package enrichment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
	domainerrors "github.com/davidleathers/muletrace-analytics/internal/domain/errors"
	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/cache"
	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/telemetry"
	"github.com/davidleathers/muletrace-analytics/internal/metrics"
	"github.com/davidleathers/muletrace-analytics/internal/service/decomposition"
	"github.com/davidleathers/muletrace-analytics/internal/service/ringgraph"
	"github.com/davidleathers/muletrace-analytics/internal/service/timeline"
)

// service implements the Service interface
type service struct {
	cache     cache.Cache
	logger    *slog.Logger
	metrics   *metrics.Registry
	tracer    trace.Tracer
	clusterer *timeline.Clusterer
	graph     *ringgraph.Builder
	resultTTL time.Duration
}

// Option configures the enrichment service.
type Option func(*service)

// WithClock pins the clusterer's reference clock, making enrichment fully
// deterministic. Used by tests and the offline CLI.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.clusterer = timeline.NewWithClock(now)
	}
}

// WithMetrics attaches a metrics registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *service) {
		s.metrics = reg
	}
}

// WithResultTTL overrides how long results stay cached.
func WithResultTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.resultTTL = ttl
	}
}

// NewService creates the enrichment service. The cache may be nil, in which
// case every call recomputes.
func NewService(resultCache cache.Cache, logger *slog.Logger, opts ...Option) Service {
	s := &service{
		cache:     resultCache,
		logger:    logger,
		tracer:    telemetry.Tracer("enrichment"),
		clusterer: timeline.New(),
		graph:     ringgraph.New(),
		resultTTL: cache.DefaultResultTTL,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Enrich(ctx context.Context, payload *detection.Payload) (*Result, error) {
	if payload == nil {
		return nil, domainerrors.ErrEmptyPayload
	}

	ctx, span := s.tracer.Start(ctx, "enrichment.Enrich")
	defer span.End()

	start := time.Now()

	key, err := s.cacheKey(payload)
	if err == nil {
		if cached := s.lookupCached(ctx, key); cached != nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}

	result := s.compute(payload)

	span.SetAttributes(
		attribute.Bool("cache.hit", false),
		attribute.Int("accounts", len(result.Accounts)),
		attribute.Int("segments", result.SegmentCount()),
		attribute.Int("burst_windows", len(result.BurstWindows)),
	)

	if s.metrics != nil {
		s.metrics.RecordEnrichment(ctx, time.Since(start), result.SegmentCount(), len(result.BurstWindows))
	}

	s.storeCached(ctx, key, result)

	s.logger.InfoContext(ctx, "payload enriched",
		"accounts", len(result.Accounts),
		"rings", len(payload.FraudRings),
		"burst_windows", len(result.BurstWindows),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

// compute runs the three pure components. It cannot fail: every component
// resolves shape problems to documented defaults.
func (s *service) compute(payload *detection.Payload) *Result {
	rings := payload.Rings()

	result := &Result{
		Accounts: make([]AccountBreakdown, 0, len(payload.SuspiciousAccounts)),
		Summary:  payload.Summary,
	}

	for _, acct := range payload.SuspiciousAccounts {
		segments, total := decomposition.Decompose(acct)

		breakdown := AccountBreakdown{
			AccountID:          acct.AccountID,
			RingID:             acct.RingID,
			Skipped:            acct.Skipped,
			Segments:           segments,
			ReconstructedTotal: total,
			DisplayScore:       total,
		}
		if acct.Score != nil {
			v := acct.Score.Value()
			breakdown.AuthoritativeScore = &v
			breakdown.DisplayScore = v
		}
		result.Accounts = append(result.Accounts, breakdown)
	}

	result.Timeline, result.BurstWindows = s.clusterer.Cluster(rings)
	result.Graph = s.graph.Build(rings, payload.SuspiciousAccounts)

	return result
}

// cacheKey hashes the canonically re-marshaled payload, so logically equal
// payloads share an entry regardless of the original JSON's formatting.
func (s *service) cacheKey(payload *detection.Payload) (string, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling payload for cache key: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return cache.ResultPrefix + hex.EncodeToString(sum[:]), nil
}

// lookupCached returns the cached result for key, or nil on miss. Cache
// failures degrade to a recompute, never to a failed request.
func (s *service) lookupCached(ctx context.Context, key string) *Result {
	if s.cache == nil {
		return nil
	}

	var result Result
	err := s.cache.GetJSON(ctx, key, &result)
	if err == nil {
		if s.metrics != nil {
			s.metrics.CacheHits.Add(ctx, 1)
		}
		return &result
	}

	if s.metrics != nil {
		s.metrics.CacheMisses.Add(ctx, 1)
	}
	var notFound cache.ErrCacheKeyNotFound
	if !errors.As(err, &notFound) {
		s.logger.WarnContext(ctx, "result cache lookup failed, recomputing", "error", err)
	}
	return nil
}

func (s *service) storeCached(ctx context.Context, key string, result *Result) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.SetJSON(ctx, key, result, s.resultTTL); err != nil {
		s.logger.WarnContext(ctx, "result cache store failed", "error", err)
	}
}
