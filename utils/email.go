package utils

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/sony/gobreaker"
)

// SMTPSender delivers mail through the configured SMTP relay. Calls go
// through a circuit breaker so a dead relay stops being hammered.
type SMTPSender struct {
	breaker *gobreaker.CircuitBreaker
}

func NewSMTPSender(breaker *gobreaker.CircuitBreaker) *SMTPSender {
	return &SMTPSender{breaker: breaker}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, sendEmail(to, subject, body)
	})
	return err
}

func sendEmail(to, subject, body string) error {
	from := os.Getenv("EMAIL_FROM")
	password := os.Getenv("EMAIL_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")

	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	if smtpPort == "" {
		smtpPort = "587"
	}
	if from == "" || password == "" {
		return fmt.Errorf("EMAIL_FROM or EMAIL_PASSWORD is not set")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
