package mailer

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Sender dispatches account verification mail. Services depend on this
// interface so tests can swap in a fake.
type Sender interface {
	SendVerificationEmail(to, username, token string) error
}

type Mailer struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

func NewMailer() *Mailer {
	port := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	dialer := gomail.NewDialer(
		valueOrDefault("SMTP_HOST", "localhost"),
		port,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	return &Mailer{
		dialer:      dialer,
		from:        valueOrDefault("SMTP_FROM", "registration@nga.at"),
		frontendURL: valueOrDefault("FRONTEND_URL", "http://localhost:8080"),
	}
}

func (m *Mailer) SendVerificationEmail(to, username, token string) error {
	link := fmt.Sprintf("%s/verify/%s", m.frontendURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Verify your email address")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nWelcome to the community forum. Verify your email address:\n%s\n\nThe link expires in 24 hours.",
		username, link,
	))
	msg.AddAlternative("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h1>Welcome, %s!</h1>
			<p>Thanks for registering. Click the button to confirm your email address:</p>
			<a href="%s" style="display: inline-block; background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px;">Verify email</a>
			<p style="color: #666; font-size: 14px;">If the button does not work, copy this link:<br><a href="%s">%s</a></p>
			<p style="color: #999; font-size: 12px;">The link expires in 24 hours.</p>
		</div>`,
		username, link, link, link,
	))

	return m.dialer.DialAndSend(msg)
}

func valueOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
