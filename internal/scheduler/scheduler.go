package scheduler

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/pkg/ptr"
)

// BookingFinder источник бронирований для проверки занятости боксов
type BookingFinder interface {
	Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// Scheduler отвечает за генерацию слотов и выбор свободного бокса.
// Состояния между запросами не хранит.
type Scheduler struct {
	cfg      Config
	bookings BookingFinder
}

// New создает планировщик с проверенной конфигурацией
func New(cfg Config, bookings BookingFinder) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{cfg: cfg, bookings: bookings}, nil
}

// TotalBays returns the number of physical service bays
func (s *Scheduler) TotalBays() int {
	return s.cfg.TotalBays
}

// Day приводит дату к полуночи в часовом поясе мастерской
func (s *Scheduler) Day(date time.Time) time.Time {
	return domain.DateOnly(date.In(s.cfg.location()))
}

// CalendarDay берет календарную дату (год, месяц, день) из date без учета ее пояса
// и возвращает полночь этого дня в часовом поясе мастерской
func (s *Scheduler) CalendarDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.cfg.location())
}

// ParseDate парсит дату YYYY-MM-DD в часовом поясе мастерской
func (s *Scheduler) ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, value, s.cfg.location())
}

// WorkingWindow возвращает абсолютные время открытия и закрытия в указанный день
func (s *Scheduler) WorkingWindow(date time.Time) (time.Time, time.Time, error) {
	loc := s.cfg.location()
	openAt, err := s.cfg.OpeningTime.On(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: opening time: %w", ErrInternal, err)
	}
	closeAt, err := s.cfg.ClosingTime.On(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: closing time: %w", ErrInternal, err)
	}
	return openAt, closeAt, nil
}

// GenerateCandidateSlots возвращает ленивую последовательность слотов на дату.
// Начало слота выровнено по сетке от времени открытия с шагом SlotIntervalMinutes;
// слот попадает в выдачу, если start+duration <= closing и start не раньше now.
// Конец слота может не совпадать с сеткой. Последовательность можно обходить повторно.
func (s *Scheduler) GenerateCandidateSlots(date time.Time, durationMinutes int, now time.Time) (iter.Seq[domain.Slot], error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	day := s.Day(date)
	if domain.IsDateInPast(day, now) {
		return nil, ErrDateInPast
	}

	openAt, closeAt, err := s.WorkingWindow(day)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(s.cfg.SlotIntervalMinutes) * time.Minute
	totalBays := s.cfg.TotalBays

	return func(yield func(domain.Slot) bool) {
		for start := openAt; !start.Add(duration).After(closeAt); start = start.Add(step) {
			if start.Before(now) {
				continue
			}
			slot := domain.Slot{
				StartTime:     start,
				EndTime:       start.Add(duration),
				AvailableBays: totalBays,
				TotalBays:     totalBays,
			}
			if !yield(slot) {
				return
			}
		}
	}, nil
}

// CheckInterval проверяет, что интервал [start, end) лежит внутри рабочего дня date
func (s *Scheduler) CheckInterval(date, start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidInterval
	}

	day := s.Day(date)
	if !domain.SameDay(start.In(s.cfg.location()), day) || !domain.SameDay(end.In(s.cfg.location()), day) {
		return ErrWrongDay
	}

	openAt, closeAt, err := s.WorkingWindow(day)
	if err != nil {
		return err
	}
	if start.Before(openAt) || end.After(closeAt) {
		return fmt.Errorf("%w: %s-%s", ErrOutsideWorkingHours, s.cfg.OpeningTime, s.cfg.ClosingTime)
	}
	return nil
}

// LoadDay загружает активные бронирования дня и строит по ним DayPlan
func (s *Scheduler) LoadDay(ctx context.Context, date time.Time) (*DayPlan, error) {
	bookings, err := s.bookings.Find(ctx, domain.ActiveOnDay(s.Day(date)))
	if err != nil {
		return nil, fmt.Errorf("%w: load bookings: %w", ErrInternal, err)
	}
	return NewDayPlan(s.cfg.TotalBays, bookings), nil
}

// IsBayAvailable проверяет по хранилищу, свободен ли бокс bay на интервале [start, end).
// Бронирование excludeBookingID не учитывается.
func (s *Scheduler) IsBayAvailable(ctx context.Context, bay int, date, start, end time.Time, excludeBookingID *int64) (bool, error) {
	if bay < 1 || bay > s.cfg.TotalBays {
		return false, fmt.Errorf("%w: %d", ErrInvalidBay, bay)
	}

	filter := domain.ActiveOnDay(s.Day(date))
	filter.BayNumber = ptr.Ptr(bay)
	filter.ExcludeID = excludeBookingID

	bookings, err := s.bookings.Find(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("%w: load bookings: %w", ErrInternal, err)
	}

	return NewDayPlan(s.cfg.TotalBays, bookings).IsBayAvailable(bay, start, end, excludeBookingID), nil
}

// FindAvailableBay возвращает первый свободный бокс в порядке 1..TotalBays
func (s *Scheduler) FindAvailableBay(ctx context.Context, date, start, end time.Time, excludeBookingID *int64) (int, bool, error) {
	plan, err := s.LoadDay(ctx, date)
	if err != nil {
		return 0, false, err
	}
	bay, ok := plan.FindAvailableBay(start, end, excludeBookingID)
	return bay, ok, nil
}
