package resilience

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrMaxRetriesExceeded is matched by *ExhaustedError.
	ErrMaxRetriesExceeded = errors.New("resilience: max retries exceeded")

	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrTimeout is returned when a single attempt times out.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// ExhaustedError is returned when every retry attempt failed.
type ExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int

	// Last is the error of the final attempt.
	Last error
}

// Error returns the error message.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("resilience: gave up after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap returns the last attempt's error for errors.Is/As support.
func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Is reports whether this error matches the target.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrMaxRetriesExceeded
}

// Attempts returns the number of attempts recorded in err, or 1 when err
// carries no attempt count.
func Attempts(err error) int {
	var ex *ExhaustedError
	if errors.As(err, &ex) {
		return ex.Attempts
	}
	return 1
}

// IsContextError reports whether err stems from context cancellation or
// deadline expiry.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
