package beatmapcache

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Sentinel errors for cache operations.
var (
	// ErrFetch is matched by *FetchError.
	ErrFetch = errors.New("beatmapcache: fetch failed")

	// ErrValidation is matched by *ValidationError.
	ErrValidation = errors.New("beatmapcache: invalid content")

	// ErrInvalidBeatmapID is returned for ids that are not positive.
	ErrInvalidBeatmapID = errors.New("beatmapcache: beatmap id must be positive")

	// ErrBodyTooLarge is returned when a response exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("beatmapcache: response body too large")
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

// Error returns the error message.
func (e *StatusError) Error() string {
	return fmt.Sprintf("beatmapcache: upstream status %d", e.StatusCode)
}

// ValidationError reports content below the minimum viable size.
type ValidationError struct {
	Size    int
	MinSize int
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("beatmapcache: content is %d bytes, want at least %d", e.Size, e.MinSize)
}

// Is reports whether this error matches the target.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FetchError is returned when a beatmap could not be downloaded. It carries
// the last status and size observed and the number of attempts made.
type FetchError struct {
	BeatmapID  int
	StatusCode int // 0 when no response was received
	Size       int // -1 when no body was read
	Attempts   int
	Err        error
}

// Error returns the error message.
func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString("beatmapcache: fetch beatmap ")
	b.WriteString(strconv.Itoa(e.BeatmapID))
	fmt.Fprintf(&b, " failed after %d attempts", e.Attempts)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d, %d bytes)", e.StatusCode, e.Size)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the last attempt's error for errors.Is/As support.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// printablePrefix returns up to n leading bytes of body with anything
// outside printable ASCII replaced by '.'.
func printablePrefix(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}
	out := make([]byte, len(body))
	for i, c := range body {
		if c < unicode.MaxASCII && unicode.IsPrint(rune(c)) {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}
