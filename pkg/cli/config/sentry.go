package config

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
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
			Usage:       "Sentry DSN; errors are reported when set",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("BACKPORTER_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Destination: &c.Env,
			Sources:     cli.EnvVars("BACKPORTER_SENTRY_ENV"),
		},
	}
}

// Configure initializes the global Sentry client. It returns a flush function to call before exit.
func (c *Sentry) Configure() (func(), error) {
	if c.DSN == "" {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Env,
		Release:     "backporter@" + types.Version,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry", goerr.T(types.ErrTagConfiguration))
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}
