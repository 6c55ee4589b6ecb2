package health

import (
	"context"
	"fmt"

	"github.com/sosubot/ppcalc/resilience"
)

// BreakerSource exposes circuit breaker metrics. *resilience.CircuitBreaker
// satisfies it.
type BreakerSource interface {
	Metrics() resilience.CircuitBreakerMetrics
}

// CircuitChecker maps a circuit breaker state to a health status: closed is
// healthy, half-open is degraded, open is unhealthy.
type CircuitChecker struct {
	name    string
	breaker BreakerSource
}

// NewCircuitChecker creates a checker for breaker. A nil breaker means the
// breaker is disabled and always reports healthy.
func NewCircuitChecker(name string, breaker BreakerSource) *CircuitChecker {
	return &CircuitChecker{name: name, breaker: breaker}
}

// Name returns the name of this checker.
func (c *CircuitChecker) Name() string {
	return c.name
}

// Check reads the breaker state.
func (c *CircuitChecker) Check(ctx context.Context) Result {
	if r, done := cancelled(ctx); done {
		return r
	}
	if c.breaker == nil {
		return Healthy("circuit breaker disabled")
	}

	m := c.breaker.Metrics()
	details := map[string]any{
		"state":    m.State.String(),
		"failures": m.Failures,
	}
	if !m.LastFailure.IsZero() {
		details["last_failure"] = m.LastFailure
	}

	switch m.State {
	case resilience.StateOpen:
		return Unhealthy(fmt.Sprintf("%s circuit open", c.name), ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded(fmt.Sprintf("%s circuit half-open", c.name)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("%s circuit closed", c.name)).WithDetails(details)
	}
}
