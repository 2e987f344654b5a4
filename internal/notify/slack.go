package notify

import (
	"context"

	"github.com/slack-go/slack"
)

type Slack struct {
	webhookURL string
}

func NewSlack(webhookURL string) *Slack {
	return &Slack{webhookURL: webhookURL}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Configured() bool { return s.webhookURL != "" }

func (s *Slack) Preview(p Payload) string {
	return MarkdownMessage(p)
}

func (s *Slack) Send(ctx context.Context, p Payload) (Delivery, error) {
	return s.post(ctx, MarkdownMessage(p))
}

func (s *Slack) SendTest(ctx context.Context) (Delivery, error) {
	return s.post(ctx, testMessage)
}

func (s *Slack) post(ctx context.Context, text string) (Delivery, error) {
	return sendEach(ctx, s.Name(), []string{s.webhookURL}, func(ctx context.Context, url string) error {
		return slack.PostWebhookContext(ctx, url, &slack.WebhookMessage{
			Text:      text,
			Username:  "Skins Game Bot",
			IconEmoji: ":football:",
		})
	})
}
