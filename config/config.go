// Package config loads pipeline configuration from an optional YAML file
// and ACORNFLOW_-prefixed environment variables, and turns it into the
// functional options the pipeline constructor expects.
package config

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	goacornflow "github.com/Keksclan/goAcornFlow"
	"github.com/Keksclan/goAcornFlow/breaker"
	"github.com/Keksclan/goAcornFlow/retry"
)

// Config mirrors the YAML/env configuration surface.
type Config struct {
	Recovery   bool             `koanf:"recovery"`
	DispatchID bool             `koanf:"dispatch_id"`
	Logging    LoggingConfig    `koanf:"logging"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Timeout    time.Duration    `koanf:"timeout"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	Breaker    BreakerConfig    `koanf:"breaker"`
	Retry      RetryConfig      `koanf:"retry"`
	Snapshot   SnapshotConfig   `koanf:"snapshot"`
}

type LoggingConfig struct {
	Enabled bool `koanf:"enabled"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

type BreakerConfig struct {
	Enabled            bool          `koanf:"enabled"`
	FailureThreshold   int           `koanf:"failure_threshold"`
	OpenTimeout        time.Duration `koanf:"open_timeout"`
	HalfOpenMaxSuccess int           `koanf:"half_open_max_success"`
}

type RetryConfig struct {
	Enabled     bool          `koanf:"enabled"`
	MaxAttempts int           `koanf:"max_attempts"`
	BaseDelay   time.Duration `koanf:"base_delay"`
	MaxDelay    time.Duration `koanf:"max_delay"`
	Jitter      float64       `koanf:"jitter"`
}

type SnapshotConfig struct {
	L1MaxCost int64         `koanf:"l1_max_cost"`
	RedisAddr string        `koanf:"redis_addr"`
	RedisPass string        `koanf:"redis_pass"`
	RedisDB   int           `koanf:"redis_db"`
	TTL       time.Duration `koanf:"ttl"`
}

// Load reads the configuration from path (YAML, optional) and then
// overlays ACORNFLOW_-prefixed environment variables, with "__" mapping
// to nesting (ACORNFLOW_RATE_LIMIT__RPS → rate_limit.rps).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// A missing file is fine; env vars alone may carry the config.
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	if err := k.Load(env.Provider("ACORNFLOW_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "ACORNFLOW_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Defaults
	if !k.Exists("recovery") {
		k.Set("recovery", true)
	}
	if !k.Exists("dispatch_id") {
		k.Set("dispatch_id", true)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Options converts the configuration into pipeline options, in priority
// order semantics identical to passing the corresponding With* options
// directly.
func (c *Config) Options() []goacornflow.Option {
	var opts []goacornflow.Option

	if c.Recovery {
		opts = append(opts, goacornflow.WithRecovery())
	}
	if c.DispatchID {
		opts = append(opts, goacornflow.WithDispatchID())
	}
	if c.Logging.Enabled {
		opts = append(opts, goacornflow.WithLogger(nil))
	}
	if c.Metrics.Enabled {
		opts = append(opts, goacornflow.WithMetrics(nil))
	}
	if c.Timeout > 0 {
		opts = append(opts, goacornflow.WithTimeout(c.Timeout, nil))
	}
	if c.RateLimit.Enabled {
		opts = append(opts, goacornflow.WithRateLimit(c.RateLimit.RPS, c.RateLimit.Burst, nil))
	}
	if c.Breaker.Enabled {
		opts = append(opts, goacornflow.WithBreaker(breaker.Config{
			FailureThreshold:   c.Breaker.FailureThreshold,
			OpenTimeout:        c.Breaker.OpenTimeout,
			HalfOpenMaxSuccess: c.Breaker.HalfOpenMaxSuccess,
		}))
	}
	if c.Retry.Enabled {
		opts = append(opts, goacornflow.WithRetry(retry.Config{
			MaxAttempts: c.Retry.MaxAttempts,
			BaseDelay:   c.Retry.BaseDelay,
			MaxDelay:    c.Retry.MaxDelay,
			Jitter:      c.Retry.Jitter,
			RetryIf:     retryTransient,
		}))
	}
	if c.Snapshot.L1MaxCost > 0 {
		opts = append(opts, goacornflow.WithSnapshotL1(c.Snapshot.L1MaxCost))
	}
	if c.Snapshot.RedisAddr != "" {
		opts = append(opts, goacornflow.WithSnapshotL2(c.Snapshot.RedisAddr, c.Snapshot.RedisPass, c.Snapshot.RedisDB))
	}

	return opts
}

// retryTransient retries everything except cancellation: a cancelled or
// timed-out dispatch was abandoned by the caller and must not be replayed.
func retryTransient(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
