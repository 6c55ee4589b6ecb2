package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricStageTotal    = "ppcalc.stage.total"
	MetricStageErrors   = "ppcalc.stage.errors"
	MetricStageDuration = "ppcalc.stage.duration_ms"
	MetricCacheEvents   = "ppcalc.cache.events"
)

// Metrics records pipeline metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordStage records one stage run with its duration and error status.
	RecordStage(ctx context.Context, meta StageMeta, duration time.Duration, err error)

	// RecordCacheEvent records a cache lookup outcome for a cache layer
	// ("file", "beatmap", "playable", "difficulty").
	RecordCacheEvent(ctx context.Context, layer, outcome string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheEvents  metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		MetricStageTotal,
		metric.WithDescription("Total number of pipeline stage runs"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		MetricStageErrors,
		metric.WithDescription("Total number of failed pipeline stage runs"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricStageDuration,
		metric.WithDescription("Pipeline stage duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheEvents, err := meter.Int64Counter(
		MetricCacheEvents,
		metric.WithDescription("Cache lookups by layer and outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		cacheEvents:  cacheEvents,
	}, nil
}

// RecordStage records metrics for a stage run.
func (m *metricsImpl) RecordStage(ctx context.Context, meta StageMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// RecordCacheEvent records a cache lookup outcome.
func (m *metricsImpl) RecordCacheEvent(ctx context.Context, layer, outcome string) {
	m.cacheEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("layer", layer),
		attribute.String("outcome", outcome),
	))
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordStage(context.Context, StageMeta, time.Duration, error) {}
func (noopMetrics) RecordCacheEvent(context.Context, string, string)            {}
