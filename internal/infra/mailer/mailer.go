package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rukshanyomal11/CeylonHomes/internal/config"
)

// Mailer delivers transactional mail. Services depend on this
// interface so tests can capture outgoing messages.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTP(cfg config.MailConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
