package mailer

import (
	"fmt"
	"log"
	"net/smtp"

	"internship-platform/internal/config"
)

// Message is a single outbound email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends email. Implementations are injected into the notifier so
// handlers and services never touch SMTP directly.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay
type SMTPMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

// NewSMTPMailer creates an SMTPMailer from config
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		from:     cfg.From,
	}
}

// Send delivers a single message
func (m *SMTPMailer) Send(msg Message) error {
	if m.host == "" || m.port == "" || m.user == "" || m.password == "" {
		return fmt.Errorf("SMTP credentials not fully configured")
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)

	body := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", msg.To, msg.Subject, msg.Body))

	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	if err := smtp.SendMail(addr, auth, m.from, []string{msg.To}, body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// Noop discards mail. Used when SMTP is not configured; order and referral
// correctness never depends on delivery.
type Noop struct{}

// Send logs and drops the message
func (Noop) Send(msg Message) error {
	log.Printf("Mailer not configured, dropping email to %s (%s)", msg.To, msg.Subject)
	return nil
}
