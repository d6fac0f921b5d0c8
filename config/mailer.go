package config

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"
)

// Mailer delivers HTML mail over SMTP.
type Mailer struct {
	cfg     SMTPSettings
	timeout time.Duration
}

func NewMailer(cfg SMTPSettings, timeout time.Duration) *Mailer {
	return &Mailer{cfg: cfg, timeout: timeout}
}

// Configured reports whether SMTP_HOST and SMTP_FROM are set.
func (m *Mailer) Configured() bool {
	return m != nil && m.cfg.Host != "" && m.cfg.From != ""
}

func (m *Mailer) SendMail(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !m.Configured() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := mail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.cfg.Host,
		InsecureSkipVerify: m.cfg.SkipTLSVerify, // dev only
	}

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout > 0 {
		d.Timeout = timeout
	}

	return d.DialAndSend(msg)
}
