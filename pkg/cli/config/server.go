package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr         string
	DrainTimeout time.Duration
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("BACKPORTER_ADDR"),
		},
		&cli.DurationFlag{
			Name:        "drain-timeout",
			Usage:       "How long shutdown waits for running backports to finish",
			Value:       10 * time.Minute,
			Destination: &c.DrainTimeout,
			Sources:     cli.EnvVars("BACKPORTER_DRAIN_TIMEOUT"),
		},
	}
}
