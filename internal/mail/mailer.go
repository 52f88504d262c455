// Package mail implements the outbound email notifier over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"tourbook/internal/config"
)

// Mailer sends HTML email through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer creates a Mailer from SMTP configuration.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one HTML email. The dial-and-send round trip is
// synchronous; gomail has no context support, so cancellation is only
// checked up front.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
