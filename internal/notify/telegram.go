package notify

import (
	"context"
)

// Telegram posts to the league chat through the bot's send function.
type Telegram struct {
	send func(text string) error
}

func NewTelegram(send func(text string) error) *Telegram {
	return &Telegram{send: send}
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Configured() bool { return t.send != nil }

func (t *Telegram) Preview(p Payload) string {
	return MarkdownMessage(p)
}

func (t *Telegram) Send(ctx context.Context, p Payload) (Delivery, error) {
	return t.post(ctx, MarkdownMessage(p))
}

func (t *Telegram) SendTest(ctx context.Context) (Delivery, error) {
	return t.post(ctx, testMessage)
}

func (t *Telegram) post(ctx context.Context, text string) (Delivery, error) {
	return sendEach(ctx, t.Name(), []string{"chat"}, func(context.Context, string) error {
		return t.send(text)
	})
}
