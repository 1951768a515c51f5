package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"noryx/internal/shared/config"
	"noryx/internal/shared/logger"
)

// Mailer delivers one HTML message to one recipient.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPMailer struct {
	cfg    *config.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg *config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.FromAddress, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// NoopMailer logs instead of sending. Used when SMTP is not configured so
// notification flows still record history in development.
type NoopMailer struct{}

func (NoopMailer) Send(to, subject, _ string) error {
	logger.Info("email delivery skipped, SMTP not configured", "to", to, "subject", subject)
	return nil
}
