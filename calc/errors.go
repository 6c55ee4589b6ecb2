package calc

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is matched by every *RequestError.
	ErrInvalidRequest = errors.New("calc: invalid request")

	// ErrCancelled wraps the context error of a calculation that was
	// cancelled or ran out of time.
	ErrCancelled = errors.New("calc: cancelled")

	// ErrMissingCollaborator is returned by New when a required
	// collaborator is nil.
	ErrMissingCollaborator = errors.New("calc: missing collaborator")
)

// RequestError names the request field that failed validation.
type RequestError struct {
	Field  string
	Reason string
	Err    error
}

// Error returns the error message.
func (e *RequestError) Error() string {
	return fmt.Sprintf("calc: invalid request: %s: %s", e.Field, e.Reason)
}

// Unwrap returns the underlying error, if any.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
func (e *RequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// stageError wraps err with the stage it came from. Context errors become
// ErrCancelled so callers can tell cancellation from collaborator failure.
func stageError(ctx context.Context, stage string, err error) error {
	if cause := ctx.Err(); cause != nil {
		return fmt.Errorf("%w during %s: %w", ErrCancelled, stage, cause)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w during %s: %w", ErrCancelled, stage, err)
	}
	return fmt.Errorf("calc: %s: %w", stage, err)
}

func fmtMissing(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingCollaborator, name)
}
