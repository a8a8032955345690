package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

const defaultDeliveryTimeout = 10 * time.Second

// Dispatcher рассылает события и уведомления о бронированиях.
// Каналы опциональны: незаданный канал пропускается.
// Уведомления о событиях отправляются в фоне, ошибки только логируются.
type Dispatcher struct {
	publisher EventPublisher
	email     EmailSender
	sms       SMSSender

	timeout      time.Duration
	timeProvider TimeProvider
	logger       Logger

	wg sync.WaitGroup
}

// NewDispatcher создает диспетчер без каналов доставки
func NewDispatcher(logger Logger) *Dispatcher {
	return &Dispatcher{
		timeout:      defaultDeliveryTimeout,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithPublisher включает публикацию событий в брокер
func (d *Dispatcher) WithPublisher(p EventPublisher) *Dispatcher {
	d.publisher = p
	return d
}

// WithEmail включает письма клиентам
func (d *Dispatcher) WithEmail(s EmailSender) *Dispatcher {
	d.email = s
	return d
}

// WithSMS включает SMS клиентам
func (d *Dispatcher) WithSMS(s SMSSender) *Dispatcher {
	d.sms = s
	return d
}

// WithTimeout задает таймаут одной доставки
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// WithTimeProvider подменяет источник времени
func (d *Dispatcher) WithTimeProvider(tp TimeProvider) *Dispatcher {
	d.timeProvider = tp
	return d
}

// BookingCreated событие booking.created, письмо и SMS клиенту
func (d *Dispatcher) BookingCreated(ctx context.Context, booking *domain.Booking) {
	d.dispatch(ctx, newBookingEvent(EventBookingCreated, booking, d.timeProvider.Now()), booking, createdMessage(booking), true)
}

// BookingCancelled событие booking.cancelled и письмо клиенту
func (d *Dispatcher) BookingCancelled(ctx context.Context, booking *domain.Booking) {
	d.dispatch(ctx, newBookingEvent(EventBookingCancelled, booking, d.timeProvider.Now()), booking, cancelledMessage(booking), true)
}

// BookingStatusChanged событие booking.status_changed.
// Клиенту пишем только о подтверждении и завершении работ.
func (d *Dispatcher) BookingStatusChanged(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus) {
	event := newBookingEvent(EventBookingStatusChanged, booking, d.timeProvider.Now())
	event.PreviousStatus = string(previous)

	notify := booking.Status == domain.StatusConfirmed || booking.Status == domain.StatusCompleted
	d.dispatch(ctx, event, booking, statusMessage(booking), notify)
}

// Remind синхронно отправляет напоминание о завтрашнем визите.
// Ошибка возвращается, если не удалось доставить ни по одному каналу.
func (d *Dispatcher) Remind(ctx context.Context, booking *domain.Booking) error {
	if d.email == nil && d.sms == nil {
		return ErrNoChannel
	}

	sent, errs := d.deliver(ctx, booking, reminderMessage(booking))
	if sent == 0 && len(errs) == 0 {
		return fmt.Errorf("%w: booking %d has no contact for configured channels", ErrNoChannel, booking.ID)
	}
	if sent == 0 {
		return fmt.Errorf("%w: reminder for booking %d: %w", ErrDelivery, booking.ID, errors.Join(errs...))
	}
	return nil
}

// Wait ожидает завершения фоновых доставок
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, event BookingEvent, booking *domain.Booking, msg message, notifyCustomer bool) {
	if d.publisher == nil && (!notifyCustomer || (d.email == nil && d.sms == nil)) {
		return
	}

	// Доставка переживает отмену запроса, но не дольше таймаута
	base := context.WithoutCancel(ctx)
	snapshot := *booking

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if d.publisher != nil {
			pubCtx, cancel := context.WithTimeout(base, d.timeout)
			if err := d.publisher.PublishJSON(pubCtx, event.Event, event); err != nil {
				d.logger.Error("Dispatcher: publish %s for booking %d failed: %v", event.Event, event.BookingID, err)
			}
			cancel()
		}

		if notifyCustomer {
			_, _ = d.deliver(base, &snapshot, msg)
		}
	}()
}

// deliver отправляет сообщение по всем каналам, возвращает число успешных
func (d *Dispatcher) deliver(ctx context.Context, booking *domain.Booking, msg message) (int, []error) {
	var (
		sent int
		errs []error
	)

	if d.email != nil && booking.CustomerEmail != "" {
		emailCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := d.email.SendEmail(emailCtx, booking.CustomerEmail, booking.CustomerName, msg.Subject, msg.Plain, msg.HTML)
		cancel()
		if err != nil {
			d.logger.Error("Dispatcher: email for booking %d failed: %v", booking.ID, err)
			errs = append(errs, err)
		} else {
			sent++
		}
	}

	if d.sms != nil && booking.CustomerPhone != "" {
		smsCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := d.sms.SendSMS(smsCtx, booking.CustomerPhone, msg.SMS)
		cancel()
		if err != nil {
			d.logger.Error("Dispatcher: sms for booking %d failed: %v", booking.ID, err)
			errs = append(errs, err)
		} else {
			sent++
		}
	}

	return sent, errs
}
