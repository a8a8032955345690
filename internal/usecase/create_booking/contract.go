package create_booking

import (
	"context"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	LockDay(ctx context.Context, date time.Time) error
}

// BayScheduler интерфейс планировщика боксов
type BayScheduler interface {
	CalendarDay(date time.Time) time.Time
	CheckInterval(date, start, end time.Time) error
	FindAvailableBay(ctx context.Context, date, start, end time.Time, excludeBookingID *int64) (int, bool, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID string) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier уведомления о бронировании, вызываются после commit
type Notifier interface {
	BookingCreated(ctx context.Context, booking *domain.Booking)
}

// OutcomeRecorder счетчик исходов бронирования
type OutcomeRecorder interface {
	ObserveBooking(outcome string)
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
