package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sosubot/ppcalc/resilience"
)

type stubBreaker struct {
	state resilience.State
}

func (s stubBreaker) Metrics() resilience.CircuitBreakerMetrics {
	return resilience.CircuitBreakerMetrics{State: s.state, Failures: 2}
}

func TestCircuitChecker_States(t *testing.T) {
	tests := []struct {
		state resilience.State
		want  Status
	}{
		{resilience.StateClosed, StatusHealthy},
		{resilience.StateHalfOpen, StatusDegraded},
		{resilience.StateOpen, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			result := NewCircuitChecker("upstream", stubBreaker{state: tt.state}).Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v, want %v", result.Status, tt.want)
			}
			if result.Details["state"] != tt.state.String() {
				t.Errorf("Details[state] = %v, want %v", result.Details["state"], tt.state)
			}
		})
	}
}

func TestCircuitChecker_NilBreaker(t *testing.T) {
	result := NewCircuitChecker("upstream", nil).Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", result.Status)
	}
}

func TestCircuitChecker_RealBreaker(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: time.Minute,
		Now:          func() time.Time { return now },
	})
	checker := NewCircuitChecker("upstream", cb)

	_ = cb.Execute(context.Background(), func(context.Context) error {
		return errors.New("502 bad gateway")
	})

	result := checker.Check(context.Background())
	if result.Status != StatusUnhealthy || !errors.Is(result.Error, ErrCircuitOpen) {
		t.Fatalf("open breaker: Status = %v, Error = %v", result.Status, result.Error)
	}

	now = now.Add(time.Minute)
	if got := checker.Check(context.Background()).Status; got != StatusDegraded {
		t.Errorf("after reset timeout: Status = %v, want StatusDegraded", got)
	}
}
