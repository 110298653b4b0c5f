package notification

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers notification email. Delivery failure never affects the
// notification ledger; callers log the error and move on.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer implements Mailer over a plain SMTP relay.
type SMTPMailer struct {
	addr string // host:port
	from string
}

// NewSMTPMailer creates a Mailer that relays through the given SMTP address.
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

// Send delivers one message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}

	return nil
}
