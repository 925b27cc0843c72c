package smtp

import (
	"fmt"

	"github.com/email-verify-api/internal/config"
	"gopkg.in/gomail.v2"
)

// Sender is the part of *gomail.Dialer the mailer needs.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends plain-text emails over SMTP.
type Mailer struct {
	dialer Sender
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)}
}

// NewMailerWithSender is used when the transport is provided by the caller.
func NewMailerWithSender(s Sender) *Mailer {
	return &Mailer{dialer: s}
}

func (m *Mailer) Send(to, subject, body, from string) error {
	if err := m.dialer.DialAndSend(newMessage(to, subject, body, from)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func newMessage(to, subject, body, from string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
