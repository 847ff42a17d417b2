package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// maxListedFailures bounds the failed filenames included in one message
const maxListedFailures = 10

// Notifier posts run summaries to a Slack incoming webhook
type Notifier struct {
	webhookURL string
}

var _ interfaces.Notifier = (*Notifier)(nil)

// NewNotifier creates a notifier for the webhook URL
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{webhookURL: webhookURL}
}

// NotifySummary posts the summary of a finished run
func (n *Notifier) NotifySummary(ctx context.Context, cfg model.Config, summary *model.Summary) error {
	msg := BuildMessage(cfg, summary)
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post summary to Slack")
	}
	return nil
}

// BuildMessage renders a summary as a webhook message
func BuildMessage(cfg model.Config, summary *model.Summary) *slack.WebhookMessage {
	color := "good"
	title := "All attachments downloaded"
	if summary.HasFailures() {
		color = "danger"
		title = fmt.Sprintf("%d of %d attachments failed", summary.Failed, summary.Total)
	}

	fields := []slack.AttachmentField{
		{Title: "Base", Value: cfg.BaseID, Short: true},
		{Title: "Table", Value: cfg.BaseName, Short: true},
		{Title: "View", Value: cfg.ViewName, Short: true},
		{Title: "Destination", Value: cfg.AttachmentsDir, Short: true},
		{Title: "Downloaded", Value: fmt.Sprintf("%d (%d bytes)", summary.Succeeded, summary.Bytes), Short: true},
		{Title: "Duration", Value: summary.Duration.Round(100 * time.Millisecond).String(), Short: true},
	}

	if failed := summary.FailedResults(); len(failed) > 0 {
		var names []string
		for i, r := range failed {
			if i == maxListedFailures {
				names = append(names, fmt.Sprintf("... and %d more", len(failed)-maxListedFailures))
				break
			}
			names = append(names, r.Attachment.Filename)
		}
		fields = append(fields, slack.AttachmentField{
			Title: "Failed files",
			Value: strings.Join(names, "\n"),
		})
	}

	return &slack.WebhookMessage{
		Text: "airgrab run finished",
		Attachments: []slack.Attachment{
			{
				Color:  color,
				Title:  title,
				Fields: fields,
			},
		},
	}
}
