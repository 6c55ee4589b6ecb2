package health

import "errors"

var (
	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a health check timed out.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrNotDirectory indicates the cache path exists but is not a directory.
	ErrNotDirectory = errors.New("health: cache path is not a directory")

	// ErrCircuitOpen indicates the upstream circuit breaker is rejecting requests.
	ErrCircuitOpen = errors.New("health: upstream circuit open")
)
