package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sosubot/ppcalc/beatmapcache"
	"github.com/sosubot/ppcalc/calc"
	"github.com/sosubot/ppcalc/memo"
	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/observe"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PPCALC"

// Config is the complete calculator configuration.
type Config struct {
	Cache   beatmapcache.Config
	Memo    MemoConfig
	Calc    calc.Config
	Observe observe.Config
}

// MemoConfig configures the artifact memo tables.
type MemoConfig struct {
	Enabled          bool
	SingleFlight     bool
	NonDeterministic []string
}

// Policy returns the memo policy described by m.
func (m MemoConfig) Policy() memo.Policy {
	return memo.Policy{Enabled: m.Enabled, SingleFlight: m.SingleFlight}
}

// SkipRule returns a rule bypassing the configured non-deterministic mods.
func (m MemoConfig) SkipRule() memo.SkipRule {
	return memo.SkipMods(m.NonDeterministic...)
}

// stringKeys lists the keys whose values pass through ExpandEnvStrict.
var stringKeys = []string{
	"cache.dir",
	"cache.base_url",
	"observe.service_name",
	"observe.version",
	"observe.tracing.exporter",
	"observe.metrics.exporter",
	"observe.logging.level",
}

func setDefaults(v *viper.Viper) {
	d := beatmapcache.DefaultConfig()
	v.SetDefault("cache.dir", d.Dir)
	v.SetDefault("cache.base_url", d.BaseURL)
	v.SetDefault("cache.retention", d.Retention)
	v.SetDefault("cache.min_size", d.MinSize)
	v.SetDefault("cache.fetch_timeout", d.FetchTimeout)
	v.SetDefault("cache.max_attempts", d.MaxAttempts)
	v.SetDefault("cache.retry_delay", d.RetryDelay)
	v.SetDefault("cache.max_body_bytes", d.MaxBodyBytes)
	v.SetDefault("cache.rate_limit", 0.0)
	v.SetDefault("cache.breaker_failures", 0)
	v.SetDefault("cache.breaker_reset", d.BreakerReset)
	v.SetDefault("cache.prefetch_limit", d.PrefetchLimit)

	v.SetDefault("memo.enabled", true)
	v.SetDefault("memo.single_flight", false)
	v.SetDefault("memo.non_deterministic", mods.NonDeterministic)

	v.SetDefault("calc.request_timeout", calc.DefaultRequestTimeout)

	v.SetDefault("observe.service_name", "ppcalc")
	v.SetDefault("observe.version", "")
	v.SetDefault("observe.tracing.enabled", false)
	v.SetDefault("observe.tracing.exporter", "none")
	v.SetDefault("observe.tracing.sample_pct", 1.0)
	v.SetDefault("observe.metrics.enabled", false)
	v.SetDefault("observe.metrics.exporter", "none")
	v.SetDefault("observe.logging.enabled", true)
	v.SetDefault("observe.logging.level", "info")
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() (*Config, error) {
	return Load("")
}

// Load reads configuration from path (skipped when empty) and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	str := make(map[string]string, len(stringKeys))
	for _, key := range stringKeys {
		expanded, err := ExpandEnvStrict(v.GetString(key))
		if err != nil {
			return nil, &FieldError{Key: key, Err: err}
		}
		str[key] = expanded
	}

	cfg := &Config{
		Cache: beatmapcache.Config{
			Dir:             str["cache.dir"],
			BaseURL:         str["cache.base_url"],
			Retention:       v.GetDuration("cache.retention"),
			MinSize:         v.GetInt("cache.min_size"),
			FetchTimeout:    v.GetDuration("cache.fetch_timeout"),
			MaxAttempts:     v.GetInt("cache.max_attempts"),
			RetryDelay:      v.GetDuration("cache.retry_delay"),
			MaxBodyBytes:    v.GetInt64("cache.max_body_bytes"),
			RateLimit:       v.GetFloat64("cache.rate_limit"),
			BreakerFailures: v.GetInt("cache.breaker_failures"),
			BreakerReset:    v.GetDuration("cache.breaker_reset"),
			PrefetchLimit:   v.GetInt("cache.prefetch_limit"),
		},
		Memo: MemoConfig{
			Enabled:          v.GetBool("memo.enabled"),
			SingleFlight:     v.GetBool("memo.single_flight"),
			NonDeterministic: splitList(v.GetStringSlice("memo.non_deterministic")),
		},
		Calc: calc.Config{
			RequestTimeout: v.GetDuration("calc.request_timeout"),
		},
		Observe: observe.Config{
			ServiceName: str["observe.service_name"],
			Version:     str["observe.version"],
			Tracing: observe.TracingConfig{
				Enabled:   v.GetBool("observe.tracing.enabled"),
				Exporter:  str["observe.tracing.exporter"],
				SamplePct: v.GetFloat64("observe.tracing.sample_pct"),
			},
			Metrics: observe.MetricsConfig{
				Enabled:  v.GetBool("observe.metrics.enabled"),
				Exporter: str["observe.metrics.exporter"],
			},
			Logging: observe.LoggingConfig{
				Enabled: v.GetBool("observe.logging.enabled"),
				Level:   str["observe.logging.level"],
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList accepts both YAML lists and comma separated environment values,
// upper-casing each acronym.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, strings.ToUpper(part))
			}
		}
	}
	return out
}

// Validate checks every value and names the first offending key.
func (c *Config) Validate() error {
	if c.Cache.Dir == "" {
		return &FieldError{Key: "cache.dir", Value: `""`, Reason: "must not be empty"}
	}
	if u, err := url.Parse(c.Cache.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &FieldError{Key: "cache.base_url", Value: c.Cache.BaseURL, Reason: "must be an absolute http(s) URL"}
	}

	positiveDurations := []struct {
		key string
		d   time.Duration
	}{
		{"cache.retention", c.Cache.Retention},
		{"cache.fetch_timeout", c.Cache.FetchTimeout},
		{"cache.breaker_reset", c.Cache.BreakerReset},
		{"calc.request_timeout", c.Calc.RequestTimeout},
	}
	for _, p := range positiveDurations {
		if p.d <= 0 {
			return &FieldError{Key: p.key, Value: p.d, Reason: "must be positive"}
		}
	}
	if c.Cache.RetryDelay < 0 {
		return &FieldError{Key: "cache.retry_delay", Value: c.Cache.RetryDelay, Reason: "must not be negative"}
	}

	positiveInts := []struct {
		key string
		n   int64
	}{
		{"cache.min_size", int64(c.Cache.MinSize)},
		{"cache.max_attempts", int64(c.Cache.MaxAttempts)},
		{"cache.max_body_bytes", c.Cache.MaxBodyBytes},
		{"cache.prefetch_limit", int64(c.Cache.PrefetchLimit)},
	}
	for _, p := range positiveInts {
		if p.n <= 0 {
			return &FieldError{Key: p.key, Value: p.n, Reason: "must be positive"}
		}
	}
	if c.Cache.RateLimit < 0 {
		return &FieldError{Key: "cache.rate_limit", Value: c.Cache.RateLimit, Reason: "must not be negative"}
	}
	if c.Cache.BreakerFailures < 0 {
		return &FieldError{Key: "cache.breaker_failures", Value: c.Cache.BreakerFailures, Reason: "must not be negative"}
	}

	for _, a := range c.Memo.NonDeterministic {
		set, err := mods.Parse(a)
		if err != nil || len(set) != 1 {
			return &FieldError{Key: "memo.non_deterministic", Value: a, Reason: "must be a mod acronym"}
		}
	}

	if err := c.Observe.Validate(); err != nil {
		return &FieldError{Key: "observe", Err: err}
	}
	return nil
}
