package beatmapcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Upstream downloads raw beatmap files.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Get must honor cancellation/deadlines.
// - Errors: a non-2xx response is reported as *StatusError.
type Upstream interface {
	Get(ctx context.Context, id int) ([]byte, error)
}

// UpstreamFunc adapts a function to Upstream.
type UpstreamFunc func(ctx context.Context, id int) ([]byte, error)

// Get calls f.
func (f UpstreamFunc) Get(ctx context.Context, id int) ([]byte, error) {
	return f(ctx, id)
}

// HTTPUpstream downloads <BaseURL><id> over HTTP.
type HTTPUpstream struct {
	BaseURL      string
	Client       *http.Client
	MaxBodyBytes int64
	UserAgent    string
}

// NewHTTPUpstream returns an upstream using an otel-instrumented client.
func NewHTTPUpstream(baseURL string, maxBodyBytes int64) *HTTPUpstream {
	return &HTTPUpstream{
		BaseURL:      baseURL,
		Client:       &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		MaxBodyBytes: maxBodyBytes,
		UserAgent:    "ppcalc",
	}
}

// Get downloads the file for id. Any 2xx status is success.
func (u *HTTPUpstream) Get(ctx context.Context, id int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.BaseURL+strconv.Itoa(id), nil)
	if err != nil {
		return nil, fmt.Errorf("beatmapcache: build request: %w", err)
	}
	if u.UserAgent != "" {
		req.Header.Set("User-Agent", u.UserAgent)
	}

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("beatmapcache: get beatmap %d: %w", id, err)
	}
	defer resp.Body.Close()

	limit := u.MaxBodyBytes
	if limit <= 0 {
		limit = 16 << 20
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("beatmapcache: read beatmap %d: %w", id, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return body, nil
}
