package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailSMS reaches phones through their carrier's email-to-SMS gateway
// (5551234567@txt.att.net).
type EmailSMS struct {
	sender mailSender
	from   string
	domain string
	phones []string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Domain   string
	Phones   []string
}

func NewEmailSMS(cfg EmailConfig) (*EmailSMS, error) {
	e := &EmailSMS{from: cfg.User, domain: cfg.Domain, phones: cfg.Phones}
	if cfg.Host == "" || cfg.User == "" {
		return e, nil
	}
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating mail client: %w", err)
	}
	e.sender = client
	return e, nil
}

func (e *EmailSMS) Name() string { return "email" }

func (e *EmailSMS) Configured() bool {
	return e.sender != nil && e.domain != "" && len(e.phones) > 0
}

func (e *EmailSMS) Preview(p Payload) string {
	return ShortMessage(p)
}

func (e *EmailSMS) Send(ctx context.Context, p Payload) (Delivery, error) {
	return e.send(ctx, fmt.Sprintf("%s W%d", p.LeagueName, p.week()), ShortMessage(p))
}

func (e *EmailSMS) SendTest(ctx context.Context) (Delivery, error) {
	return e.send(ctx, "Skins Test", testMessage)
}

func (e *EmailSMS) send(ctx context.Context, subject, body string) (Delivery, error) {
	return sendEach(ctx, e.Name(), e.phones, func(ctx context.Context, phone string) error {
		msg := mail.NewMsg()
		if err := msg.From(e.from); err != nil {
			return fmt.Errorf("invalid sender: %w", err)
		}
		if err := msg.To(GatewayAddress(phone, e.domain)); err != nil {
			return fmt.Errorf("invalid recipient: %w", err)
		}
		msg.Subject(subject)
		msg.SetBodyString(mail.TypeTextPlain, body)
		return e.sender.DialAndSendWithContext(ctx, msg)
	})
}

// GatewayAddress turns a phone number into its carrier gateway address,
// dropping formatting and a leading US country code.
func GatewayAddress(phone, domain string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits + "@" + domain
}
