// Package mail sends transactional email over SMTP.
package mail

import (
	"context"

	"github.com/go-faster/errors"
	gomail "github.com/wneessen/go-mail"
)

// Config holds SMTP connection settings. The defaults match a Gmail app
// password setup (STARTTLS on port 587).
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends plain-text mail through an authenticated SMTP relay.
// It satisfies identity.Sender.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender creates an SMTPSender from the given config.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create smtp client")
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

// Send delivers a plain-text message to a single recipient.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return errors.Wrap(err, "set from")
	}
	if err := msg.To(to); err != nil {
		return errors.Wrap(err, "set to")
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrapf(err, "send mail to %s", to)
	}
	return nil
}
