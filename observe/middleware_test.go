package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type testMiddleware struct {
	mw     *Middleware
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newTestMiddleware(t *testing.T, level string) testMiddleware {
	t.Helper()
	tracer, spans := newRecordingTracer()
	metrics, reader := newTestMetrics(t)
	var logs bytes.Buffer
	return testMiddleware{
		mw:     NewMiddleware(tracer, metrics, NewLoggerWithWriter(level, &logs)),
		spans:  spans,
		reader: reader,
		logs:   &logs,
	}
}

func TestMiddleware_SuccessPath(t *testing.T) {
	tm := newTestMiddleware(t, "debug")
	meta := StageMeta{Stage: StageDifficulty, BeatmapID: 3}

	var stars float64
	err := tm.mw.Run(context.Background(), meta, func(ctx context.Context) error {
		stars = 6.25
		return nil
	})

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stars != 6.25 {
		t.Errorf("stage result not propagated through closure")
	}
	if n := len(tm.spans.Ended()); n != 1 {
		t.Errorf("spans = %d, want 1", n)
	}
	if got := sumOf(t, collect(t, tm.reader), MetricStageTotal); got != 1 {
		t.Errorf("%s = %d, want 1", MetricStageTotal, got)
	}

	entries := decodeLines(t, tm.logs)
	if len(entries) != 1 || entries[0]["msg"] != "stage completed" || entries[0]["stage"] != "difficulty" {
		t.Errorf("log entries = %v", entries)
	}
	if _, ok := entries[0]["duration_ms"]; !ok {
		t.Error("log entry missing duration_ms")
	}
}

func TestMiddleware_ErrorPath(t *testing.T) {
	tm := newTestMiddleware(t, "info")
	stageErr := errors.New("decode failed")

	err := tm.mw.Run(context.Background(), StageMeta{Stage: StageParse}, func(ctx context.Context) error {
		return stageErr
	})

	if err != stageErr {
		t.Errorf("Run() error = %v, want the stage error unchanged", err)
	}
	if got := sumOf(t, collect(t, tm.reader), MetricStageErrors); got != 1 {
		t.Errorf("%s = %d, want 1", MetricStageErrors, got)
	}
	entries := decodeLines(t, tm.logs)
	if len(entries) != 1 || entries[0]["level"] != "error" || entries[0]["error"] != "decode failed" {
		t.Errorf("log entries = %v", entries)
	}
}

func TestMiddleware_PropagatesSpanContext(t *testing.T) {
	tm := newTestMiddleware(t, "info")

	var inner trace.SpanContext
	_ = tm.mw.Run(context.Background(), StageMeta{Stage: StageFetch}, func(ctx context.Context) error {
		inner = trace.SpanContextFromContext(ctx)
		return nil
	})

	if !inner.IsValid() {
		t.Fatal("stage context carries no span")
	}
	if inner.SpanID() != tm.spans.Ended()[0].SpanContext().SpanID() {
		t.Error("stage context does not carry the stage span")
	}
}

func TestMiddleware_RejectsUnnamedStage(t *testing.T) {
	mw := NopMiddleware()
	called := false

	err := mw.Run(context.Background(), StageMeta{}, func(ctx context.Context) error {
		called = true
		return nil
	})

	if !errors.Is(err, ErrMissingStage) {
		t.Errorf("Run() error = %v, want ErrMissingStage", err)
	}
	if called {
		t.Error("stage ran without a name")
	}
}

func TestMiddleware_Wrap(t *testing.T) {
	mw := NopMiddleware()
	calls := 0
	fn := mw.Wrap(StageMeta{Stage: StageStatistics}, func(ctx context.Context) error {
		calls++
		return nil
	})

	_ = fn(context.Background())
	_ = fn(context.Background())

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestMiddlewareFromObserver(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "ppcalc-test"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver() error = %v", err)
	}
	if mw.Metrics() == nil || mw.Logger() == nil {
		t.Error("middleware components are nil")
	}
}
