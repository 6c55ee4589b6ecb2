package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by *FieldError.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingEnv is returned when a ${VAR} reference names an unset
	// environment variable.
	ErrMissingEnv = errors.New("config: missing required environment variables")
)

// FieldError names the configuration key that failed validation.
type FieldError struct {
	Key    string
	Value  any
	Reason string
	Err    error
}

// Error returns the error message.
func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("config: %s: %s, got %v", e.Key, e.Reason, e.Value)
}

// Unwrap returns the underlying error, if any.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidConfig
}
