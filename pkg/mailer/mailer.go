package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional mail through an authenticated SMTP relay
// (STARTTLS, e.g. Gmail on port 587).
type Mailer struct {
	dialer *gomail.Dialer
	sender string
}

// Config holds SMTP relay details.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// Sender is the From address; the relay must be allowed to send as it.
	Sender string
}

// New creates a new Mailer. No connection is made until a send.
func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		sender: cfg.Sender,
	}
}

const resetSubject = "[Sedorist] Password reset"

const resetBodyHTML = `
<html>
<body>
    <p>Thank you for using Sedorist.</p>
    <p>We received a request to reset your password.</p>
    <p>Click the link below to choose a new one.</p>
    <p>
        <a href="%s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">
            Reset password
        </a>
    </p>
    <p>The link is valid for 1 hour.</p>
    <p>If you did not request this, you can safely ignore this email.</p>
    <hr>
    <p><small>This message was sent from a send-only address.</small></p>
</body>
</html>
`

// SendResetEmail mails a password-reset link to the recipient.
func (m *Mailer) SendResetEmail(to, resetURL string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.sender, "Sedorist")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", resetSubject)
	msg.SetBody("text/html", fmt.Sprintf(resetBodyHTML, resetURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
