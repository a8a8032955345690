package get_bay_schedule

import (
	"context"

	"github.com/DINUSHA26/PrimeAuto/internal/service/bookings/models"
)

type BookingService interface {
	BaySchedule(ctx context.Context, date string) (*models.BayScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
