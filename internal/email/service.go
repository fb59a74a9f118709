package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinicore/portal-api/internal/config"
)

type Service interface {
	SendAppointmentConfirmation(ctx context.Context, to, patientName, date, timeOfDay string) error
	SendWelcome(ctx context.Context, to, name string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to, patientName, date, timeOfDay string) error {
	subject := "Your appointment is booked"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment has been scheduled for %s at %s.\n\nSee you then!",
		patientName, date, timeOfDay,
	)
	return s.send(to, subject, body)
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	subject := "Welcome to the clinic portal"
	body := fmt.Sprintf("Hi %s,\n\nYour account is ready. You can sign in and book appointments right away.", name)
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Noop returns a Service that discards all mail. Used when SMTP is not
// configured.
func Noop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) SendAppointmentConfirmation(context.Context, string, string, string, string) error {
	return nil
}

func (noopService) SendWelcome(context.Context, string, string) error { return nil }
