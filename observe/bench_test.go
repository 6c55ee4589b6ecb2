package observe

import (
	"context"
	"io"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard).With(StageMeta{Stage: StageFetch, BeatmapID: 1})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "fetched", Field{Key: "size", Value: 4096})
	}
}

func BenchmarkLogger_LevelFiltering(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "dropped")
	}
}

func BenchmarkMetrics_RecordStage(b *testing.B) {
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	m, _ := newMetrics(mp.Meter("bench"))
	ctx := context.Background()
	meta := StageMeta{Stage: StageDifficulty, BeatmapID: 1, Ruleset: "osu"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordStage(ctx, meta, time.Millisecond, nil)
	}
}

func BenchmarkMiddleware_Run(b *testing.B) {
	tp := sdktrace.NewTracerProvider()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	m, _ := newMetrics(mp.Meter("bench"))
	mw := NewMiddleware(NewTracer(tp.Tracer("bench")), m, NewLoggerWithWriter("info", io.Discard))
	ctx := context.Background()
	meta := StageMeta{Stage: StagePerformance, BeatmapID: 1}
	fn := func(ctx context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mw.Run(ctx, meta, fn)
	}
}
