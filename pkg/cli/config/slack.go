package config

import (
	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds outcome notification configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL receiving run summaries",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("BACKPORTER_SLACK_WEBHOOK_URL"),
		},
	}
}

// NewNotifier returns a Slack notifier, or nil when no webhook URL is configured
func (c *Slack) NewNotifier(policy model.Policy) (interfaces.Notifier, error) {
	if c.WebhookURL == "" {
		return nil, nil
	}
	notifier, err := slack.New(c.WebhookURL, slack.WithPolicy(policy))
	if err != nil {
		return nil, err
	}
	return notifier, nil
}
