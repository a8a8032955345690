package notifications

import (
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// Ключи маршрутизации событий
const (
	EventBookingCreated       = "booking.created"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent тело события бронирования
type BookingEvent struct {
	Event          string    `json:"event"`
	BookingID      int64     `json:"bookingId"`
	ServiceID      string    `json:"serviceId"`
	ServiceName    string    `json:"serviceName"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail"`
	VehicleNumber  string    `json:"vehicleNumber"`
	BayNumber      int       `json:"bayNumber"`
	BookingDate    string    `json:"bookingDate"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func newBookingEvent(event string, b *domain.Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Event:         event,
		BookingID:     b.ID,
		ServiceID:     b.ServiceID,
		ServiceName:   b.ServiceName,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		VehicleNumber: b.VehicleNumber,
		BayNumber:     b.BayNumber,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        string(b.Status),
		OccurredAt:    occurredAt,
	}
}
