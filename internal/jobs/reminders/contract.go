package reminders

import (
	"context"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// BookingFinder выборка бронирований
type BookingFinder interface {
	Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// Calendar приводит момент времени к дню мастерской
type Calendar interface {
	Day(date time.Time) time.Time
}

// Reminder отправка напоминания клиенту
type Reminder interface {
	Remind(ctx context.Context, booking *domain.Booking) error
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
