package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	slackapi "github.com/slack-go/slack"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// Service posts a notification when an engagement request is created, so
// staff see new requests without watching the destination board.
type Service interface {
	NotifyRequestCreated(ctx context.Context, created *model.CreatedItem, form *model.RequestForm) error
}

type webhookNotifier struct {
	webhookURL string
	boardID    types.BoardID
}

// NewWebhookNotifier creates a Service backed by a Slack incoming webhook.
func NewWebhookNotifier(webhookURL string, boardID types.BoardID) (Service, error) {
	if webhookURL == "" {
		return nil, goerr.New("Slack webhook URL is required")
	}
	return &webhookNotifier{
		webhookURL: webhookURL,
		boardID:    boardID,
	}, nil
}

func (n *webhookNotifier) NotifyRequestCreated(ctx context.Context, created *model.CreatedItem, form *model.RequestForm) error {
	msg := &slackapi.WebhookMessage{
		Blocks: &slackapi.Blocks{
			BlockSet: []slackapi.Block{
				slackapi.NewSectionBlock(
					slackapi.NewTextBlockObject(slackapi.MarkdownType,
						fmt.Sprintf("*New engagement request:* %s", form.EngagementName), false, false),
					nil, nil,
				),
				slackapi.NewSectionBlock(nil, []*slackapi.TextBlockObject{
					slackapi.NewTextBlockObject(slackapi.MarkdownType,
						fmt.Sprintf("*Requester:*\n%s", form.RequesterName), false, false),
					slackapi.NewTextBlockObject(slackapi.MarkdownType,
						fmt.Sprintf("*Department:*\n%s", form.Department), false, false),
					slackapi.NewTextBlockObject(slackapi.MarkdownType,
						fmt.Sprintf("*Event date:*\n%s %s:%s", form.EventDate, form.EventHour, form.EventMinute), false, false),
					slackapi.NewTextBlockObject(slackapi.MarkdownType,
						fmt.Sprintf("*Request ID:*\n%s", created.ID), false, false),
				}, nil),
			},
		},
	}

	if err := slackapi.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post request notification",
			goerr.V("board_id", n.boardID), goerr.V("request_id", created.ID))
	}
	return nil
}
