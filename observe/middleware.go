package observe

import (
	"context"
	"time"
)

// StageFunc is one unit of pipeline work. Results travel through the
// closure; the middleware only sees the error.
type StageFunc func(ctx context.Context) error

// Middleware wraps pipeline stages with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Run and Wrap are safe for concurrent use.
//   - Context: the stage runs with the span's context.
//   - Errors: errors from the stage are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components. Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a middleware that only runs the stage.
func NopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Metrics returns the metrics recorder used by the middleware.
func (m *Middleware) Metrics() Metrics {
	return m.metrics
}

// Logger returns the logger used by the middleware.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Wrap returns fn instrumented as the stage described by meta.
func (m *Middleware) Wrap(meta StageMeta, fn StageFunc) StageFunc {
	return func(ctx context.Context) error {
		return m.Run(ctx, meta, fn)
	}
}

// Run executes fn as the stage described by meta.
func (m *Middleware) Run(ctx context.Context, meta StageMeta, fn StageFunc) error {
	if err := meta.Validate(); err != nil {
		return err
	}

	ctx, span := m.tracer.StartSpan(ctx, meta)
	start := time.Now()

	err := fn(ctx)

	duration := time.Since(start)
	m.tracer.EndSpan(span, err)
	m.metrics.RecordStage(ctx, meta, duration, err)

	stageLogger := m.logger.With(meta)
	fields := []Field{
		{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
	}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		stageLogger.Error(ctx, "stage failed", fields...)
	} else {
		stageLogger.Debug(ctx, "stage completed", fields...)
	}

	return err
}
