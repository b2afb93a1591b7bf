package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"moviegram/internal/config"
)

// Mailer sends transactional mail over SMTP. Only the password-reset flow
// sends mail today, so there is no queueing; a failed send fails the request.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// New creates a Mailer from SMTP configuration.
func New(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

// SendOTP mails a password-reset code.
func (m *Mailer) SendOTP(to, code string) error {
	subject := "Moviegram password reset code"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Password reset</h2>
    <p>Your one-time code is:</p>
    <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
      %s
    </div>
    <p>The code expires in 5 minutes.</p>
    <p>If you did not request a reset, you can ignore this email.</p>
  </div>
</body>
</html>`, code)

	return m.sendHTML(to, subject, body)
}

// sendHTML delivers a single HTML message via the configured SMTP relay.
func (m *Mailer) sendHTML(to, subject, body string) error {
	if m.host == "" {
		return fmt.Errorf("smtp is not configured")
	}

	headers := []string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("[Mailer] Send FAILED: to=%s err=%v", to, err)
		return fmt.Errorf("send mail: %w", err)
	}

	log.Printf("[Mailer] Send OK: to=%s subject=%q", to, subject)
	return nil
}
