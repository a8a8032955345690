package get_availability

import (
	"context"
	"iter"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/internal/scheduler"
)

// BayScheduler интерфейс планировщика боксов
type BayScheduler interface {
	CalendarDay(date time.Time) time.Time
	GenerateCandidateSlots(date time.Time, durationMinutes int, now time.Time) (iter.Seq[domain.Slot], error)
	LoadDay(ctx context.Context, date time.Time) (*scheduler.DayPlan, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID string) (*domain.Service, error)
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
