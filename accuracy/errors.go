package accuracy

import (
	"errors"
	"fmt"

	"github.com/sosubot/ppcalc/scoring"
)

// ErrDegenerateInput is matched by every *DegenerateInputError.
var ErrDegenerateInput = errors.New("accuracy: degenerate input")

// DegenerateInputError reports an input combination the formulas cannot
// represent, such as an accuracy outside [0,1] or more misses than
// judged objects.
type DegenerateInputError struct {
	// Ruleset is the estimator that rejected the input.
	Ruleset scoring.Ruleset

	// Field names the offending input or derived count.
	Field string

	// Reason explains the rejection.
	Reason string
}

// Error returns the error message.
func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("accuracy: degenerate input for %s: %s: %s", e.Ruleset, e.Field, e.Reason)
}

// Is reports whether this error matches the target.
func (e *DegenerateInputError) Is(target error) bool {
	return target == ErrDegenerateInput
}

func degenerate(r scoring.Ruleset, field, format string, args ...any) error {
	return &DegenerateInputError{Ruleset: r, Field: field, Reason: fmt.Sprintf(format, args...)}
}
