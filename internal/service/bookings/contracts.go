package bookings

import (
	"context"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/internal/scheduler"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, cancelledAt time.Time) error
}

// BayScheduler интерфейс планировщика боксов
type BayScheduler interface {
	TotalBays() int
	ParseDate(value string) (time.Time, error)
	LoadDay(ctx context.Context, date time.Time) (*scheduler.DayPlan, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier уведомления об изменении бронирования, вызываются после commit
type Notifier interface {
	BookingCancelled(ctx context.Context, booking *domain.Booking)
	BookingStatusChanged(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus)
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
