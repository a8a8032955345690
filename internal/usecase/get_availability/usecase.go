package get_availability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	catalogClient "github.com/DINUSHA26/PrimeAuto/internal/integrations/catalog"
	"github.com/DINUSHA26/PrimeAuto/internal/scheduler"
)

var tracer = otel.Tracer("github.com/DINUSHA26/PrimeAuto/internal/usecase/get_availability")

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	scheduler    BayScheduler
	catalog      CatalogClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(scheduler BayScheduler, catalog CatalogClient, logger Logger) *UseCase {
	return &UseCase{
		scheduler:    scheduler,
		catalog:      catalog,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "GetAvailability")
	defer span.End()

	req.ServiceID = strings.TrimSpace(req.ServiceID)
	uc.logger.Info("GetAvailability: service=%s, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}
	if !service.IsBookable() {
		uc.logger.Warn("GetAvailability: service id=%s is not bookable (active=%t, duration=%d)",
			req.ServiceID, service.IsActive, service.DurationMinutes)
		return nil, ErrServiceNotFound
	}

	day := uc.scheduler.CalendarDay(req.Date)
	span.SetAttributes(
		attribute.String("service.id", service.ID),
		attribute.String("booking.date", day.Format(domain.DateFormat)),
	)

	// 4. Генерируем кандидатов (прошедшая дата отклоняется здесь)
	candidates, err := uc.scheduler.GenerateCandidateSlots(day, service.DurationMinutes, now)
	if err != nil {
		if errors.Is(err, scheduler.ErrDateInPast) {
			uc.logger.Warn("GetAvailability: date %s is in the past", day.Format(domain.DateFormat))
			return nil, ErrInvalidDate
		}
		if errors.Is(err, domain.ErrInvalidRequest) {
			uc.logger.Warn("GetAvailability: invalid slot parameters: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("GetAvailability: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %w", ErrInternal, err)
	}

	// 5. Загружаем активные бронирования дня одним запросом
	plan, err := uc.scheduler.LoadDay(ctx, day)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to load bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to load bookings: %w", ErrInternal, err)
	}

	// 6. Считаем свободные боксы на каждый слот
	slots := make([]domain.Slot, 0)
	for slot := range candidates {
		slot.AvailableBays = plan.AvailableBays(slot.StartTime, slot.EndTime)
		if slot.AvailableBays > 0 {
			slots = append(slots, slot)
		}
	}

	uc.logger.Info("GetAvailability: %d available slots for service=%s, date=%s",
		len(slots), service.ID, day.Format(domain.DateFormat))

	return &Response{
		Date:       day,
		Service:    service,
		Slots:      slots,
		TotalSlots: len(slots),
	}, nil
}
