// Package resilience wraps calls to the beatmap upstream with retry,
// per-attempt timeout, circuit breaking and rate limiting.
//
// # Patterns
//
//   - Retry: re-runs a failed attempt with constant, linear or exponential
//     backoff. Exhaustion returns *ExhaustedError carrying the attempt count
//     and the last error. Context errors are never retried.
//
//   - Timeout: bounds a single attempt. Expiry of the attempt's own
//     deadline is reported as ErrTimeout; cancellation of the caller's
//     context is reported as the caller's context error.
//
//   - Circuit Breaker: stops calling an upstream that keeps failing and
//     probes it again after a cool-down.
//
//   - Rate Limiter: a token bucket that keeps request rates polite.
//
// # Usage
//
//	executor := resilience.NewExecutor(
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	        Rate: 2, Burst: 4, WaitOnLimit: true,
//	    })),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures: 5,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: time.Second,
//	        Strategy:     resilience.BackoffConstant,
//	    })),
//	    resilience.WithTimeout(30*time.Second),
//	)
//
//	body, err := resilience.Do(ctx, executor, func(ctx context.Context) ([]byte, error) {
//	    return upstream.Get(ctx, id)
//	})
package resilience
