package cancel_booking

import (
	"context"

	"github.com/DINUSHA26/PrimeAuto/internal/service/bookings/models"
)

type BookingService interface {
	Cancel(ctx context.Context, bookingID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
