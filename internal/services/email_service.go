package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"neofitness/internal/models"
)

// EmailService delivers one-time codes. A send failure aborts the enclosing
// workflow transaction, so nothing may be persisted before it succeeds.
type EmailService interface {
	SendOTPEmail(toEmail, code, purpose string) error
}

type emailService struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, fromName string) EmailService {
	return &emailService{
		dialer:   gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:     fromEmail,
		fromName: fromName,
	}
}

func (s *emailService) SendOTPEmail(toEmail, code, purpose string) error {
	var subject, intro string
	switch purpose {
	case models.PurposeResetPassword:
		subject = "NeoFitness - Password reset code"
		intro = "You requested a password reset for your NeoFitness account."
	default:
		subject = "NeoFitness - Email verification code"
		intro = "Thank you for registering with NeoFitness."
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)

	body := fmt.Sprintf(`
		<div style="font-family:Segoe UI,Roboto,Arial,sans-serif;line-height:1.6">
			<h2 style="margin:0 0 8px">NeoFitness</h2>
			<p>%s</p>
			<p>Your one-time code is:</p>
			<div style="font-size:28px;font-weight:800;letter-spacing:4px;margin:8px 0 12px">%s</div>
			<p>The code expires in <b>10 minutes</b>. Do not share it with anyone.</p>
			<p>If this wasn't you, you can ignore this email.</p>
		</div>
	`, intro, code)
	m.SetBody("text/html", body)
	m.AddAlternative("text/plain", fmt.Sprintf("%s\n\nOTP: %s\nExpires in 10 minutes. Do not share it.", intro, code))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}
