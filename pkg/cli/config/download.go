package config

import (
	"time"

	"github.com/m-mizutani/airgrab/pkg/domain/types"
	"github.com/m-mizutani/airgrab/pkg/infra/download"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// DefaultIntervalMS is the default stagger between download starts
const DefaultIntervalMS = 500

// Download holds download pacing and retry configuration
type Download struct {
	IntervalMS     int
	MaxAttempts    int
	Timeout        time.Duration
	MaxConcurrency int
	FailOnError    bool
}

// Flags returns CLI flags for download configuration
func (c *Download) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "interval",
			Usage:       "Milliseconds between the start of two downloads",
			Value:       DefaultIntervalMS,
			Destination: &c.IntervalMS,
			Sources:     cli.EnvVars("DOWNLOAD_INTERVAL"),
		},
		&cli.IntFlag{
			Name:        "max-attempts",
			Usage:       "Attempts per file before giving up",
			Value:       1,
			Destination: &c.MaxAttempts,
			Sources:     cli.EnvVars("DOWNLOAD_MAX_ATTEMPTS"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of a single attempt, 0 for none",
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("DOWNLOAD_TIMEOUT"),
		},
		&cli.IntFlag{
			Name:        "max-concurrency",
			Usage:       "Maximum downloads in flight, 0 for no limit",
			Destination: &c.MaxConcurrency,
			Sources:     cli.EnvVars("DOWNLOAD_MAX_CONCURRENCY"),
		},
		&cli.BoolFlag{
			Name:        "fail-on-error",
			Usage:       "Exit with an error when any download failed",
			Destination: &c.FailOnError,
			Sources:     cli.EnvVars("DOWNLOAD_FAIL_ON_ERROR"),
		},
	}
}

// Interval returns the stagger as a duration
func (c *Download) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Validate checks the ranges of the values
func (c *Download) Validate() error {
	if c.IntervalMS < 0 {
		return goerr.Wrap(types.ErrInvalidConfig, "interval must not be negative", goerr.V("interval", c.IntervalMS))
	}
	if c.MaxAttempts < 1 {
		return goerr.Wrap(types.ErrInvalidConfig, "max attempts must be at least 1", goerr.V("max_attempts", c.MaxAttempts))
	}
	if c.Timeout < 0 {
		return goerr.Wrap(types.ErrInvalidConfig, "timeout must not be negative", goerr.V("timeout", c.Timeout))
	}
	if c.MaxConcurrency < 0 {
		return goerr.Wrap(types.ErrInvalidConfig, "max concurrency must not be negative", goerr.V("max_concurrency", c.MaxConcurrency))
	}
	return nil
}

// Configure creates the download client
func (c *Download) Configure() *download.Client {
	return download.NewClient(
		download.WithMaxAttempts(c.MaxAttempts),
		download.WithTimeout(c.Timeout),
	)
}
