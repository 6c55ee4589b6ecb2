package beatmapcache

import (
	"os"
	"path/filepath"
	"time"
)

// Config configures a Cache.
type Config struct {
	// Dir is the cache directory. It is created on first write.
	// Default: <os.TempDir()>/ppcalc/beatmaps
	Dir string

	// BaseURL is prefixed to the beatmap id to form the download URL.
	// Default: https://osu.ppy.sh/osu/
	BaseURL string

	// Retention is how long a cached file stays fresh.
	// Default: 7 days
	Retention time.Duration

	// MinSize is the smallest valid file in bytes.
	// Default: 30
	MinSize int

	// FetchTimeout bounds a single download attempt.
	// Default: 30s
	FetchTimeout time.Duration

	// MaxAttempts is the number of download attempts, including the first.
	// Default: 3
	MaxAttempts int

	// RetryDelay is the fixed delay between attempts.
	// Default: 1s
	RetryDelay time.Duration

	// MaxBodyBytes caps the size of a downloaded body.
	// Default: 16 MiB
	MaxBodyBytes int64

	// RateLimit is the number of upstream requests per second. Zero
	// disables rate limiting.
	RateLimit float64

	// BreakerFailures is the number of consecutive failed fetches that opens
	// the upstream circuit. Zero disables the breaker.
	BreakerFailures int

	// BreakerReset is how long the circuit stays open.
	// Default: 30s
	BreakerReset time.Duration

	// PrefetchLimit bounds concurrent downloads in Prefetch.
	// Default: 4
	PrefetchLimit int
}

// DefaultBaseURL is the public beatmap download endpoint.
const DefaultBaseURL = "https://osu.ppy.sh/osu/"

// DefaultConfig returns the configuration with every default applied.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Dir == "" {
		c.Dir = filepath.Join(os.TempDir(), "ppcalc", "beatmaps")
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Retention <= 0 {
		c.Retention = 7 * 24 * time.Hour
	}
	if c.MinSize <= 0 {
		c.MinSize = 30
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 16 << 20
	}
	if c.BreakerReset <= 0 {
		c.BreakerReset = 30 * time.Second
	}
	if c.PrefetchLimit <= 0 {
		c.PrefetchLimit = 4
	}
	return c
}
