package notifications

import (
	"context"
	"time"
)

// EventPublisher публикация событий в брокер сообщений
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// EmailSender отправка писем клиенту
type EmailSender interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error
}

// SMSSender отправка SMS клиенту
type SMSSender interface {
	SendSMS(ctx context.Context, toNumber, body string) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
