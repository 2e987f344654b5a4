package notify

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSMS texts every configured number through the Twilio REST API.
type TwilioSMS struct {
	api  messageCreator
	from string
	to   []string
}

func NewTwilioSMS(accountSID, authToken, from string, to []string) *TwilioSMS {
	t := &TwilioSMS{from: from, to: to}
	if accountSID != "" && authToken != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
		t.api = client.Api
	}
	return t
}

func (t *TwilioSMS) Name() string { return "sms" }

func (t *TwilioSMS) Configured() bool {
	return t.api != nil && t.from != "" && len(t.to) > 0
}

func (t *TwilioSMS) Preview(p Payload) string {
	return LongMessage(p)
}

func (t *TwilioSMS) Send(ctx context.Context, p Payload) (Delivery, error) {
	return t.send(ctx, LongMessage(p))
}

func (t *TwilioSMS) SendTest(ctx context.Context) (Delivery, error) {
	return t.send(ctx, testMessage)
}

func (t *TwilioSMS) send(ctx context.Context, body string) (Delivery, error) {
	return sendEach(ctx, t.Name(), t.to, func(_ context.Context, to string) error {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(t.from)
		params.SetBody(body)
		_, err := t.api.CreateMessage(params)
		return err
	})
}
