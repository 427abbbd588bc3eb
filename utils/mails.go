package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendMail delivers a raw MIME message over SMTP. When GOOGLE_SMTP_MDP is
// unset (local dev, tests) sending is disabled and the call is a logged no-op.
func SendMail(email string, message []byte) error {
	from := "hello@thedinkhouse.com"
	password := os.Getenv("GOOGLE_SMTP_MDP")
	if password == "" {
		LogInfo("Email sending disabled: GOOGLE_SMTP_MDP is not set")
		return nil
	}
	to := email

	smtpHost := "smtp.gmail.com"
	smtpPort := "587"
	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, message)
	if err != nil {
		LogError(err, "Error sending email")
		return fmt.Errorf("sending email to %s: %w", to, err)
	}

	LogSuccess("Email sent to " + to)
	return nil
}
