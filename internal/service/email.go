package service

import (
	"fmt"
	"net/smtp"
)

// SMTPEmailService sends one-time codes over plain SMTP.
type SMTPEmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

var _ EmailSender = (*SMTPEmailService)(nil)

// NewSMTPEmailService creates a new SMTPEmailService instance.
func NewSMTPEmailService(host, port, username, password, from string) *SMTPEmailService {
	return &SMTPEmailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPEmailService) SendPasswordResetCode(to, code string) error {
	subject := "Password Reset Request"
	body := fmt.Sprintf("You requested a password reset. Your reset code is: %s\r\nThe code expires in one hour.", code)

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body))

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
