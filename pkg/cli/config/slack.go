package config

import (
	"github.com/m-mizutani/airgrab/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds summary notification configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for the run summary",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("SLACK_WEBHOOK_URL"),
		},
	}
}

// Configure returns a notifier, or nil when no webhook is set
func (c *Slack) Configure() *slack.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slack.NewNotifier(c.WebhookURL)
}
