package health

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sosubot/ppcalc/observe"
)

func staticChecker(name string, r Result) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result { return r })
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewAggregator_Defaults(t *testing.T) {
	agg := NewAggregator()

	if agg.config.Timeout != 10*time.Second {
		t.Errorf("Default timeout = %v, want 10s", agg.config.Timeout)
	}
	if agg.config.Sequential {
		t.Error("Default should run checks in parallel")
	}
	if agg.config.Logger == nil {
		t.Error("Default logger should not be nil")
	}
}

func TestAggregator_RegisterAndUnregister(t *testing.T) {
	agg := NewAggregator()
	agg.Register("cache_dir", staticChecker("cache_dir", Healthy("ok")))
	agg.Register("memo", staticChecker("memo", Healthy("ok")))
	agg.Register("cache_dir", staticChecker("cache_dir", Healthy("second")))

	names := agg.CheckerNames()
	if len(names) != 2 || names[0] != "cache_dir" || names[1] != "memo" {
		t.Fatalf("CheckerNames() = %v, want [cache_dir memo]", names)
	}

	result, err := agg.Check(context.Background(), "cache_dir")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Message != "second" {
		t.Errorf("Message = %q, want replacement checker", result.Message)
	}

	agg.Unregister("cache_dir")
	if names := agg.CheckerNames(); len(names) != 1 || names[0] != "memo" {
		t.Errorf("CheckerNames() after Unregister = %v, want [memo]", names)
	}
}

func TestAggregator_CheckNotFound(t *testing.T) {
	agg := NewAggregator()

	_, err := agg.Check(context.Background(), "nonexistent")
	if err != ErrCheckerNotFound {
		t.Errorf("Check() error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		agg := NewAggregator(AggregatorConfig{Sequential: sequential})
		agg.Register("healthy", staticChecker("healthy", Healthy("ok")))
		agg.Register("degraded", staticChecker("degraded", Degraded("slow")))

		results := agg.CheckAll(context.Background())
		if len(results) != 2 {
			t.Fatalf("sequential=%v: got %d results, want 2", sequential, len(results))
		}
		if results["healthy"].Status != StatusHealthy {
			t.Errorf("healthy status = %v, want StatusHealthy", results["healthy"].Status)
		}
		if results["degraded"].Status != StatusDegraded {
			t.Errorf("degraded status = %v, want StatusDegraded", results["degraded"].Status)
		}
	}
}

func TestAggregator_CheckAllEmpty(t *testing.T) {
	if results := NewAggregator().CheckAll(context.Background()); len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}
}

func TestAggregator_CheckAllTimeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 50 * time.Millisecond})

	agg.Register("slow", NewCheckerFunc("slow", func(ctx context.Context) Result {
		time.Sleep(200 * time.Millisecond)
		return Healthy("ok")
	}))

	results := agg.CheckAll(context.Background())

	if results["slow"].Status != StatusUnhealthy {
		t.Errorf("slow status = %v, want StatusUnhealthy", results["slow"].Status)
	}
	if results["slow"].Error != ErrCheckTimeout {
		t.Errorf("slow error = %v, want ErrCheckTimeout", results["slow"].Error)
	}
}

func TestAggregator_LogsUnhealthyResults(t *testing.T) {
	var buf lockedBuffer
	agg := NewAggregator(AggregatorConfig{
		Logger: observe.NewLoggerWithWriter("debug", &buf),
	})
	agg.Register("ok", staticChecker("ok", Healthy("fine")))
	agg.Register("upstream", staticChecker("upstream", Unhealthy("upstream circuit open", ErrCircuitOpen)))

	agg.CheckAll(context.Background())

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one log line, got %q", out)
	}
	for _, want := range []string{"health check not healthy", `"check":"upstream"`, ErrCircuitOpen.Error()} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"empty", map[string]Result{}, StatusHealthy},
		{"all healthy", map[string]Result{"a": Healthy("ok"), "b": Healthy("ok")}, StatusHealthy},
		{"one degraded", map[string]Result{"a": Healthy("ok"), "b": Degraded("slow")}, StatusDegraded},
		{"unhealthy overrides degraded", map[string]Result{"a": Degraded("slow"), "b": Unhealthy("down", nil)}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregator_Run(t *testing.T) {
	agg := NewAggregator()
	agg.Register("memo", staticChecker("memo", Degraded("memo tables large: 60000 entries")))

	report := agg.Run(context.Background())
	if report.Status != StatusDegraded {
		t.Errorf("Report.Status = %v, want StatusDegraded", report.Status)
	}
	if report.CheckedAt.IsZero() {
		t.Error("Report.CheckedAt should be set")
	}
	if report.Results["memo"].Duration < 0 {
		t.Error("Duration should be recorded")
	}
}

func TestAggregator_Checker(t *testing.T) {
	agg := NewAggregator()
	agg.Register("unhealthy", staticChecker("unhealthy", Unhealthy("down", nil)))

	checker := agg.Checker()
	if checker.Name() != "aggregate" {
		t.Errorf("Name() = %v, want 'aggregate'", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", result.Status)
	}
	if result.Message != "some checks failed" {
		t.Errorf("Message = %v, want 'some checks failed'", result.Message)
	}
	if _, ok := result.Details["unhealthy"]; !ok {
		t.Error("Details should carry the component result")
	}
}
