package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/museum-lab/engagedesk/pkg/domain/types"
	"github.com/museum-lab/engagedesk/pkg/service/slack"
)

type Slack struct {
	webhookURL string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for request notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("ENGAGEDESK_SLACK_WEBHOOK_URL"),
			Destination: &x.webhookURL,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("webhook-url.len", len(x.webhookURL)),
	)
}

// IsConfigured reports whether notification is enabled.
func (x *Slack) IsConfigured() bool {
	return x.webhookURL != ""
}

// Configure creates the notification service, or nil when not configured.
// Notification is optional; requests are created either way.
func (x *Slack) Configure(boardID types.BoardID) (slack.Service, error) {
	if x.webhookURL == "" {
		return nil, nil
	}
	return slack.NewWebhookNotifier(x.webhookURL, boardID)
}
