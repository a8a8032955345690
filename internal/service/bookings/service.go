package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	bookingRepo "github.com/DINUSHA26/PrimeAuto/internal/infra/storage/booking"
	"github.com/DINUSHA26/PrimeAuto/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	scheduler    BayScheduler
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	scheduler BayScheduler,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		scheduler:    scheduler,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования с фильтрацией по статусу, дате, боксу и email.
// Сортировка: сначала новые дни, внутри дня по времени начала.
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := s.toDomainFilter(req)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	bookings, err := s.bookingRepo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// BaySchedule возвращает активные бронирования дня, сгруппированные по боксам.
// В ответе присутствуют все боксы, в том числе пустые.
func (s *Service) BaySchedule(ctx context.Context, date string) (*models.BayScheduleResponse, error) {
	day, err := s.scheduler.ParseDate(strings.TrimSpace(date))
	if err != nil {
		s.logger.Warn("BaySchedule: invalid date %q: %v", date, err)
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	plan, err := s.scheduler.LoadDay(ctx, day)
	if err != nil {
		s.logger.Error("BaySchedule: failed to load day %s: %v", date, err)
		return nil, fmt.Errorf("%w: BaySchedule - load day: %w", ErrInternal, err)
	}

	resp := &models.BayScheduleResponse{
		Date:      day.Format(domain.DateFormat),
		TotalBays: plan.TotalBays(),
		Bays:      make([]models.BayEntry, 0, plan.TotalBays()),
	}
	for bay := 1; bay <= plan.TotalBays(); bay++ {
		resp.Bays = append(resp.Bays, models.BayEntry{
			BayNumber: bay,
			Bookings:  models.FromDomainBookingList(plan.Bookings(bay)).Bookings,
		})
	}

	s.logger.Info("BaySchedule: built schedule for %s", resp.Date)
	return resp, nil
}

// UpdateStatus обновляет статус бронирования.
// Допустимы переходы pending -> confirmed -> in-progress -> completed
// и отмена из любого незавершенного статуса. Повтор текущего статуса ничего не меняет.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", bookingID, req.Status)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%q for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	var (
		updated  *domain.Booking
		previous domain.BookingStatus
	)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}
		previous = booking.Status

		if !booking.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: booking id=%d transition %s -> %s not allowed", bookingID, booking.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if booking.Status == newStatus {
			updated = booking
			return nil
		}

		if newStatus == domain.StatusCancelled {
			err = s.bookingRepo.Cancel(txCtx, bookingID, s.timeProvider.Now())
		} else {
			err = s.bookingRepo.UpdateStatus(txCtx, bookingID, newStatus)
		}
		if err != nil {
			return s.repoError("UpdateStatus", bookingID, err)
		}

		updated, err = s.getBooking(txCtx, "UpdateStatus", bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if previous != updated.Status {
		s.logger.Info("UpdateStatus: booking id=%d %s -> %s", bookingID, previous, updated.Status)
		if updated.Status == domain.StatusCancelled {
			s.notifier.BookingCancelled(ctx, updated)
		} else {
			s.notifier.BookingStatusChanged(ctx, updated, previous)
		}
	}

	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет бронирование: статус cancelled, запись сохраняется.
// Повторная отмена возвращает бронирование без изменений.
func (s *Service) Cancel(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	var (
		cancelled bool
		result    *domain.Booking
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		if booking.Status == domain.StatusCancelled {
			s.logger.Info("Cancel: booking id=%d already cancelled", bookingID)
			result = booking
			return nil
		}
		if booking.Status.IsTerminal() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, s.timeProvider.Now()); err != nil {
			return s.repoError("Cancel", bookingID, err)
		}

		result, err = s.getBooking(txCtx, "Cancel", bookingID)
		cancelled = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}

	if cancelled {
		s.logger.Info("Cancel: successfully cancelled booking id=%d, bay %d freed", bookingID, result.BayNumber)
		s.notifier.BookingCancelled(ctx, result)
	}

	return models.FromDomainBooking(result), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError(op, id, err)
	}
	return booking, nil
}

func (s *Service) repoError(op string, id int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}

// toDomainFilter конвертирует request в domain фильтр
func (s *Service) toDomainFilter(req *models.ListBookingsRequest) (domain.BookingFilter, error) {
	var filter domain.BookingFilter
	if req == nil {
		return filter, nil
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return filter, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		filter.Status = &status
	}

	if req.Date != nil {
		day, err := s.scheduler.ParseDate(strings.TrimSpace(*req.Date))
		if err != nil {
			return filter, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
		}
		filter.DateFrom = &day
		filter.DateTo = &day
	}

	if req.BayNumber != nil {
		if *req.BayNumber < 1 || *req.BayNumber > s.scheduler.TotalBays() {
			return filter, fmt.Errorf("%w: bayNumber must be between 1 and %d", ErrInvalidInput, s.scheduler.TotalBays())
		}
		filter.BayNumber = req.BayNumber
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		filter.CustomerEmail = &email
	}

	return filter, nil
}
