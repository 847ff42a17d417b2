package config

import (
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/airgrab/pkg/domain/types"
	sentryinfra "github.com/m-mizutani/airgrab/pkg/infra/sentry"
	"github.com/urfave/cli/v3"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string `masq:"secret"`
	Env string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Destination: &c.Env,
			Sources:     cli.EnvVars("SENTRY_ENV"),
		},
	}
}

// Configure returns a reporter, or nil when no DSN is set
func (c *Sentry) Configure() (*sentryinfra.Reporter, error) {
	if c.DSN == "" {
		return nil, nil
	}
	return sentryinfra.NewReporter(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Env,
		Release:     types.UserAgent(),
	})
}
