package beatmapcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sosubot/ppcalc/observe"
	"github.com/sosubot/ppcalc/resilience"
)

// cacheLayer labels file cache events in metrics.
const cacheLayer = "file"

// bodyPrefixLen is how much of a rejected body is logged.
const bodyPrefixLen = 64

// Stats counts cache activity since the Cache was created.
type Stats struct {
	Hits      int64
	Misses    int64
	Downloads int64
	Failures  int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithUpstream replaces the HTTP upstream.
func WithUpstream(u Upstream) Option {
	return func(c *Cache) {
		c.upstream = u
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(l observe.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// WithMetrics sets the recorder for cache hit and miss events.
func WithMetrics(m observe.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithClock sets the time source used for freshness and file times.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// Cache is a file-backed beatmap cache in front of an Upstream.
//
// Contract:
// - Concurrency: safe for concurrent use; at most one download per id is in
// flight at any time.
// - Context: Fetch honors cancellation while waiting for the id's section,
// between retry attempts, and during downloads.
// - Errors: download failures are *FetchError; invalid ids are
// ErrInvalidBeatmapID; cancellation returns the context error wrapped.
type Cache struct {
	config   Config
	store    *FileStore
	upstream Upstream
	executor *resilience.Executor
	breaker  *resilience.CircuitBreaker
	locks    *lockTable
	logger   observe.Logger
	metrics  observe.Metrics
	now      func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	downloads atomic.Int64
	failures  atomic.Int64
}

// New creates a cache from config. Zero config fields take their defaults.
func New(config Config, opts ...Option) *Cache {
	config = config.withDefaults()

	c := &Cache{
		config:  config,
		store:   NewFileStore(config.Dir),
		locks:   newLockTable(),
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.upstream == nil {
		c.upstream = NewHTTPUpstream(config.BaseURL, config.MaxBodyBytes)
	}

	execOpts := []resilience.ExecutorOption{
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts:  config.MaxAttempts,
			InitialDelay: config.RetryDelay,
			Strategy:     resilience.BackoffConstant,
		})),
		resilience.WithTimeout(config.FetchTimeout),
	}
	if config.BreakerFailures > 0 {
		c.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures:  config.BreakerFailures,
			ResetTimeout: config.BreakerReset,
			Now:          c.now,
		})
		execOpts = append(execOpts, resilience.WithCircuitBreaker(c.breaker))
	}
	if config.RateLimit > 0 {
		burst := int(config.RateLimit)
		if burst < 1 {
			burst = 1
		}
		execOpts = append(execOpts, resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:        config.RateLimit,
			Burst:       burst,
			WaitOnLimit: true,
			MaxWait:     config.FetchTimeout,
		})))
	}
	c.executor = resilience.NewExecutor(execOpts...)

	return c
}

// Config returns the effective configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Path returns the file path used for id.
func (c *Cache) Path(id int) string {
	return c.store.Path(id)
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.store.Dir()
}

// Breaker returns the upstream circuit breaker, or nil when disabled.
func (c *Cache) Breaker() *resilience.CircuitBreaker {
	return c.breaker
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Downloads: c.downloads.Load(),
		Failures:  c.failures.Load(),
	}
}

// Invalidate removes the cached file for id.
func (c *Cache) Invalidate(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBeatmapID, id)
	}
	release, err := c.locks.acquire(context.Background(), id)
	if err != nil {
		return err
	}
	defer release()
	return c.store.Remove(id)
}

// Fetch returns the beatmap file for id, downloading it when the cached
// copy is missing, undersized, or older than Retention.
func (c *Cache) Fetch(ctx context.Context, id int) ([]byte, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBeatmapID, id)
	}

	if data, ok, err := c.lookup(id); err != nil {
		return nil, err
	} else if ok {
		c.record(ctx, "hit")
		return data, nil
	}

	release, err := c.locks.acquire(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("beatmapcache: wait for beatmap %d: %w", id, err)
	}
	defer release()

	// A concurrent caller may have downloaded it while we waited.
	if data, ok, err := c.lookup(id); err != nil {
		return nil, err
	} else if ok {
		c.record(ctx, "hit")
		return data, nil
	}
	c.record(ctx, "miss")

	data, err := c.download(ctx, id)
	if err != nil {
		if !resilience.IsContextError(err) {
			c.failures.Add(1)
		}
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("beatmapcache: fetch beatmap %d: %w", id, err)
	}
	if err := c.store.Save(id, data, c.now()); err != nil {
		return nil, err
	}
	c.downloads.Add(1)

	return data, nil
}

// lookup returns the cached file when it is valid and fresh.
func (c *Cache) lookup(id int) ([]byte, bool, error) {
	entry, ok, err := c.store.Load(id)
	if err != nil || !ok {
		return nil, false, err
	}
	if entry.Size < c.config.MinSize {
		return nil, false, nil
	}
	// Strictly older than the retention window is expired.
	if c.now().Sub(entry.FetchedAt) > c.config.Retention {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

func (c *Cache) record(ctx context.Context, outcome string) {
	switch outcome {
	case "hit":
		c.hits.Add(1)
	case "miss":
		c.misses.Add(1)
	}
	c.metrics.RecordCacheEvent(ctx, cacheLayer, outcome)
}

// download runs the upstream call through the executor and turns
// exhaustion into a *FetchError.
func (c *Cache) download(ctx context.Context, id int) ([]byte, error) {
	var (
		attempt    int
		lastStatus int
		lastSize   = -1
	)

	data, err := resilience.Do(ctx, c.executor, func(ctx context.Context) ([]byte, error) {
		attempt++
		body, err := c.upstream.Get(ctx, id)

		status, size := 200, len(body)
		var statusErr *StatusError
		switch {
		case errors.As(err, &statusErr):
			status, size, body = statusErr.StatusCode, len(statusErr.Body), statusErr.Body
		case err != nil:
			status, size = 0, -1
		case len(body) < c.config.MinSize:
			err = &ValidationError{Size: len(body), MinSize: c.config.MinSize}
		}
		if err == nil {
			return body, nil
		}
		lastStatus, lastSize = status, size

		if !resilience.IsContextError(err) {
			c.logger.Warn(ctx, "beatmap download attempt failed",
				observe.Field{Key: "beatmap.id", Value: id},
				observe.Field{Key: "attempt", Value: attempt},
				observe.Field{Key: "max_attempts", Value: c.config.MaxAttempts},
				observe.Field{Key: "status", Value: status},
				observe.Field{Key: "size", Value: size},
				observe.Field{Key: "body_prefix", Value: printablePrefix(body, bodyPrefixLen)},
				observe.Field{Key: "error", Value: err},
			)
		}
		return nil, err
	})
	if err == nil {
		return data, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("beatmapcache: fetch beatmap %d: %w", id, ctxErr)
	}

	last := err
	var exhausted *resilience.ExhaustedError
	if errors.As(err, &exhausted) {
		last = exhausted.Last
	}
	return nil, &FetchError{
		BeatmapID:  id,
		StatusCode: lastStatus,
		Size:       lastSize,
		Attempts:   attempt,
		Err:        last,
	}
}

// Prefetch warms the cache for ids, downloading at most PrefetchLimit at
// once. Failures are joined per id; one failure does not stop the others.
func (c *Cache) Prefetch(ctx context.Context, ids ...int) error {
	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(c.config.PrefetchLimit)

	for _, id := range ids {
		g.Go(func() error {
			if _, err := c.Fetch(ctx, id); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("beatmap %d: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
