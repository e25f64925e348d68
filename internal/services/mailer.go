package services

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer delivers a single email. The queue consumer calls it for each
// job; a returned error causes the job to be requeued.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr   string
	sender string
}

// NewSMTPMailer creates an SMTPMailer for the given host, port and
// sender address.
func NewSMTPMailer(host string, port int, sender string) *SMTPMailer {
	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		sender: sender,
	}
}

// Send delivers one message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.sender, to, subject, body)
	if err := smtp.SendMail(m.addr, nil, m.sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes mail to the log instead of delivering it. Used in
// development when no SMTP relay is available.
type LogMailer struct{}

// Send logs the message.
func (LogMailer) Send(to, subject, body string) error {
	log.Printf("mail to=%s subject=%q\n%s", to, subject, body)
	return nil
}
