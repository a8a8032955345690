package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// DefaultSchedule каждый день в 18:00 по времени мастерской
const DefaultSchedule = "0 18 * * *"

const defaultRunTimeout = 5 * time.Minute

var (
	ErrInvalidSchedule = errors.New("reminders: invalid schedule")
	ErrFindBookings    = errors.New("reminders: find bookings error")
)

// Result итог одного запуска
type Result struct {
	Date   time.Time
	Total  int
	Sent   int
	Failed int
}

// Job рассылает напоминания о визитах на следующий день
type Job struct {
	finder       BookingFinder
	calendar     Calendar
	reminder     Reminder
	timeProvider TimeProvider
	logger       Logger

	cron *cron.Cron
}

// NewJob создает задачу напоминаний
func NewJob(finder BookingFinder, calendar Calendar, reminder Reminder, logger Logger) *Job {
	return &Job{
		finder:       finder,
		calendar:     calendar,
		reminder:     reminder,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (j *Job) WithTimeProvider(tp TimeProvider) *Job {
	j.timeProvider = tp
	return j
}

// Start регистрирует задачу в cron по расписанию schedule и запускает планировщик
func (j *Job) Start(schedule string, loc *time.Location) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if loc == nil {
		loc = time.Local
	}

	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.logger.Error("Reminders: run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}

	j.cron = c
	c.Start()
	j.logger.Info("Reminders: scheduled with %q (%s)", schedule, loc)
	return nil
}

// Stop останавливает планировщик и ждет завершения текущего запуска
func (j *Job) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}

	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		j.logger.Warn("Reminders: stop interrupted: %v", ctx.Err())
	}
}

// Run отправляет напоминания по ожидающим и подтвержденным бронированиям завтрашнего дня.
// Ошибка доставки одного напоминания не прерывает рассылку.
func (j *Job) Run(ctx context.Context) (Result, error) {
	tomorrow := j.calendar.Day(j.timeProvider.Now()).AddDate(0, 0, 1)
	result := Result{Date: tomorrow}

	bookings, err := j.finder.Find(ctx, domain.ActiveOnDay(tomorrow))
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrFindBookings, err)
	}

	for _, booking := range bookings {
		if !needsReminder(booking) {
			continue
		}
		result.Total++

		if err := j.reminder.Remind(ctx, booking); err != nil {
			j.logger.Warn("Reminders: booking %d not reminded: %v", booking.ID, err)
			result.Failed++
			continue
		}
		result.Sent++
	}

	j.logger.Info("Reminders: %s total=%d sent=%d failed=%d",
		tomorrow.Format(domain.DateFormat), result.Total, result.Sent, result.Failed)
	return result, nil
}

func needsReminder(b *domain.Booking) bool {
	return b.Status == domain.StatusPending || b.Status == domain.StatusConfirmed
}
