package services

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends best-effort notification emails. A misconfigured or failing
// SMTP server is logged and otherwise ignored; no request outcome depends
// on email delivery.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewMailer reads SMTP configuration from the environment
func NewMailer() *Mailer {
	port := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			port = parsed
		}
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@stayhaven.app"
	}

	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: from,
	}
}

// Send delivers a plain-text email in the background
func (m *Mailer) Send(to, subject, body string) {
	if m.host == "" {
		log.Printf("mailer: SMTP not configured, skipping %q to %s", subject, to)
		return
	}

	go func() {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/plain", body)

		dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
		if err := dialer.DialAndSend(msg); err != nil {
			log.Printf("mailer: failed to send %q to %s: %v", subject, to, err)
		}
	}()
}
