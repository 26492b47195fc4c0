// Package notify delivers best-effort email notifications. Delivery failures
// are logged, never surfaced: nothing in the booking pipeline may fail or
// block because an email did not go out.
package notify

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/sirupsen/logrus"
)

// Notifier sends a message to a recipient. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Send(to, subject, body string) error
}

// SMTPNotifier sends plain-text mail over SMTP with PLAIN auth.
type SMTPNotifier struct {
	host     string
	port     string
	from     string
	password string
}

// NewSMTPNotifierFromEnv builds an SMTPNotifier from SMTP_* environment
// variables. It returns nil when SMTP_HOST is unset, letting the caller fall
// back to a Noop notifier for local development.
func NewSMTPNotifierFromEnv() *SMTPNotifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	return &SMTPNotifier{
		host:     host,
		port:     getEnv("SMTP_PORT", "587"),
		from:     os.Getenv("SMTP_FROM"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Send delivers one message. It blocks on the SMTP conversation, so callers
// on a request path should invoke it from a goroutine.
func (n *SMTPNotifier) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s\r\n", to, subject, body))
	auth := smtp.PlainAuth("", n.from, n.password, n.host)
	if err := smtp.SendMail(n.host+":"+n.port, auth, n.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// Noop discards all notifications. Used when no SMTP server is configured.
type Noop struct{}

// Send logs the would-be notification and succeeds.
func (Noop) Send(to, subject, _ string) error {
	logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).
		Debug("notification suppressed: no SMTP server configured")
	return nil
}
