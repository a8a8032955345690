package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSConfig параметры отправки SMS через Twilio
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// SMSSender отправляет SMS клиентам через Twilio
type SMSSender struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewSMSSender создает отправителя SMS
func NewSMSSender(cfg SMSConfig) (*SMSSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil, fmt.Errorf("%w: twilio account sid, auth token and from number are required", ErrNotConfigured)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   cfg.AccountSID,
		Password:   cfg.AuthToken,
		AccountSid: cfg.AccountSID,
	})

	return &SMSSender{client: client, fromNumber: cfg.FromNumber}, nil
}

// SendSMS отправляет сообщение на номер в формате E.164.
// Клиент Twilio не принимает context, ctx проверяется только перед отправкой.
func (s *SMSSender) SendSMS(ctx context.Context, toNumber, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: twilio to %s: %v", ErrSend, toNumber, err)
	}
	return nil
}
