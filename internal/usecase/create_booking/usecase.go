package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	bookingRepo "github.com/DINUSHA26/PrimeAuto/internal/infra/storage/booking"
	catalogClient "github.com/DINUSHA26/PrimeAuto/internal/integrations/catalog"
	"github.com/DINUSHA26/PrimeAuto/pkg/metrics"
)

var tracer = otel.Tracer("github.com/DINUSHA26/PrimeAuto/internal/usecase/create_booking")

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	scheduler    BayScheduler
	catalog      CatalogClient
	txManager    TransactionManager
	notifier     Notifier
	outcomes     OutcomeRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduler BayScheduler,
	catalog CatalogClient,
	txManager TransactionManager,
	notifier Notifier,
	outcomes OutcomeRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduler:    scheduler,
		catalog:      catalog,
		txManager:    txManager,
		notifier:     notifier,
		outcomes:     outcomes,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Блокировка дня берется первым запросом транзакции, выборка занятости
// и вставка выполняются после нее и видят бронирования, зафиксированные
// предыдущим владельцем блокировки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "CreateBooking")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	normalizeRequest(req)

	uc.logger.Info("CreateBooking: service=%s, date=%s, start=%s, email=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime.Format(time.RFC3339), req.CustomerEmail)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.observe(metrics.OutcomeRejected)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			uc.observe(metrics.OutcomeRejected)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		uc.observe(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}
	if !service.IsBookable() {
		uc.logger.Warn("CreateBooking: service id=%s is not bookable (active=%t, duration=%d)",
			req.ServiceID, service.IsActive, service.DurationMinutes)
		uc.observe(metrics.OutcomeRejected)
		return nil, ErrServiceNotFound
	}

	span.SetAttributes(
		attribute.String("service.id", service.ID),
		attribute.Int("service.duration_minutes", service.DurationMinutes),
	)

	// 4. Вычисляем интервал
	day := uc.scheduler.CalendarDay(req.Date)
	start := req.StartTime
	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	// 5. Время начала не в прошлом
	if start.Before(now) {
		uc.logger.Warn("CreateBooking: start %s is before now %s", start.Format(time.RFC3339), now.Format(time.RFC3339))
		uc.observe(metrics.OutcomeRejected)
		return nil, ErrStartInPast
	}

	// 6. Интервал в пределах рабочего дня
	if err := uc.scheduler.CheckInterval(day, start, end); err != nil {
		uc.logger.Warn("CreateBooking: invalid interval %s-%s: %v", start.Format(time.RFC3339), end.Format(time.RFC3339), err)
		uc.observe(metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	var result *domain.Booking

	// 7. Выбор бокса и вставка в одной транзакции (READ COMMITTED)
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 7.1. Блокировка дня, до первого чтения бронирований
		if err := uc.bookingRepo.LockDay(txCtx, day); err != nil {
			uc.logger.Error("CreateBooking: failed to lock day %s: %v", day.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: failed to lock day: %w", ErrInternal, err)
		}

		// 7.2. Ищем первый свободный бокс
		bay, ok, err := uc.scheduler.FindAvailableBay(txCtx, day, start, end, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to find available bay: %v", err)
			return fmt.Errorf("%w: failed to find available bay: %w", ErrInternal, err)
		}
		if !ok {
			uc.logger.Warn("CreateBooking: no bays available on %s %s-%s",
				day.Format(domain.DateFormat), start.Format(domain.TimeFormat), end.Format(domain.TimeFormat))
			return ErrNoBayAvailable
		}

		// 7.3. Создаем бронирование
		booking := &domain.Booking{
			ServiceID:     service.ID,
			ServiceName:   service.Name,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			VehicleNumber: req.VehicleNumber,
			VehicleModel:  req.VehicleModel,
			Notes:         req.Notes,
			BookingDate:   day,
			StartTime:     start,
			EndTime:       end,
			BayNumber:     bay,
			Status:        domain.StatusPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: bay %d taken concurrently: %v", bay, err)
				return ErrNoBayAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNoBayAvailable) {
			uc.observe(metrics.OutcomeConflict)
			return nil, ErrNoBayAvailable
		}
		uc.observe(metrics.OutcomeFailed)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction: %w", ErrInternal, err)
	}

	uc.observe(metrics.OutcomeCreated)
	span.SetAttributes(attribute.Int64("booking.id", result.ID), attribute.Int("booking.bay", result.BayNumber))
	uc.logger.Info("CreateBooking: successfully created booking id=%d, bay=%d", result.ID, result.BayNumber)

	// 8. Уведомления после commit
	uc.notifier.BookingCreated(ctx, result)

	return &Response{
		Booking: result,
		Service: service,
	}, nil
}

func (uc *UseCase) observe(outcome string) {
	if uc.outcomes != nil {
		uc.outcomes.ObserveBooking(outcome)
	}
}
