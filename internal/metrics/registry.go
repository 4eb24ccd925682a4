// Package metrics holds the OpenTelemetry instruments the analytics layer
// records against. Instruments come from the global meter provider, so they
// are silent no-ops unless telemetry is initialized with an exporter.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds all domain-specific metrics for the analytics layer
type Registry struct {
	meter metric.Meter

	// Enrichment pipeline
	PayloadsProcessed metric.Int64Counter
	PayloadsFailed    metric.Int64Counter
	EnrichDuration    metric.Float64Histogram
	SegmentsEmitted   metric.Int64Counter
	BurstWindows      metric.Int64Counter

	// Result cache
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter

	// API surface
	APIRequestDuration metric.Float64Histogram
	APIRequestCounter  metric.Int64Counter
}

// NewRegistry creates a new metrics registry with all domain metrics
func NewRegistry(meterName string) (*Registry, error) {
	r := &Registry{meter: otel.Meter(meterName)}

	if err := r.initEnrichmentMetrics(); err != nil {
		return nil, err
	}
	if err := r.initCacheMetrics(); err != nil {
		return nil, err
	}
	if err := r.initAPIMetrics(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) initEnrichmentMetrics() error {
	var err error

	r.PayloadsProcessed, err = r.meter.Int64Counter(
		"mta.enrichment.payloads_processed",
		metric.WithDescription("Detection payloads enriched successfully"),
	)
	if err != nil {
		return err
	}

	r.PayloadsFailed, err = r.meter.Int64Counter(
		"mta.enrichment.payloads_failed",
		metric.WithDescription("Detection payloads rejected or failed during enrichment"),
	)
	if err != nil {
		return err
	}

	r.EnrichDuration, err = r.meter.Float64Histogram(
		"mta.enrichment.duration",
		metric.WithDescription("Duration of a full payload enrichment in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000),
	)
	if err != nil {
		return err
	}

	r.SegmentsEmitted, err = r.meter.Int64Counter(
		"mta.enrichment.segments_emitted",
		metric.WithDescription("Score decomposition segments emitted across all accounts"),
	)
	if err != nil {
		return err
	}

	r.BurstWindows, err = r.meter.Int64Counter(
		"mta.enrichment.burst_windows",
		metric.WithDescription("Burst windows detected on enriched timelines"),
	)
	return err
}

func (r *Registry) initCacheMetrics() error {
	var err error

	r.CacheHits, err = r.meter.Int64Counter(
		"mta.cache.hits",
		metric.WithDescription("Enrichment results served from the result cache"),
	)
	if err != nil {
		return err
	}

	r.CacheMisses, err = r.meter.Int64Counter(
		"mta.cache.misses",
		metric.WithDescription("Enrichment results recomputed after a cache miss"),
	)
	return err
}

func (r *Registry) initAPIMetrics() error {
	var err error

	r.APIRequestDuration, err = r.meter.Float64Histogram(
		"mta.api.request_duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 50, 100, 500, 1000, 5000),
	)
	if err != nil {
		return err
	}

	r.APIRequestCounter, err = r.meter.Int64Counter(
		"mta.api.requests",
		metric.WithDescription("Total HTTP requests by route and status"),
	)
	return err
}

// RecordEnrichment records one completed enrichment run.
func (r *Registry) RecordEnrichment(ctx context.Context, d time.Duration, segments, bursts int) {
	r.PayloadsProcessed.Add(ctx, 1)
	r.EnrichDuration.Record(ctx, float64(d.Microseconds())/1000.0)
	r.SegmentsEmitted.Add(ctx, int64(segments))
	r.BurstWindows.Add(ctx, int64(bursts))
}

// RecordAPIRequest records one served HTTP request.
func (r *Registry) RecordAPIRequest(ctx context.Context, route string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	r.APIRequestCounter.Add(ctx, 1, attrs)
	r.APIRequestDuration.Record(ctx, float64(d.Microseconds())/1000.0, attrs)
}
