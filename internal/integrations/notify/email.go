package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	ErrNotConfigured = errors.New("notify: sender not configured")
	ErrSend          = errors.New("notify: send error")
)

// EmailConfig параметры отправки писем через SendGrid
type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// EmailSender отправляет письма клиентам через SendGrid
type EmailSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewEmailSender создает отправителя писем
func NewEmailSender(cfg EmailConfig) (*EmailSender, error) {
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		return nil, fmt.Errorf("%w: sendgrid api key and from email are required", ErrNotConfigured)
	}

	fromName := cfg.FromName
	if fromName == "" {
		fromName = "PrimeAuto"
	}

	return &EmailSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(fromName, cfg.FromEmail),
	}, nil
}

// SendEmail отправляет письмо одному получателю
func (s *EmailSender) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(toName, toEmail), plainText, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: sendgrid to %s: %v", ErrSend, toEmail, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid returned status %d: %s", ErrSend, response.StatusCode, response.Body)
	}
	return nil
}
