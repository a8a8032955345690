package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/internal/service/bookings/models"
	createBooking "github.com/DINUSHA26/PrimeAuto/internal/usecase/create_booking"
	"github.com/DINUSHA26/PrimeAuto/pkg/types"
)

var (
	errInvalidDate      = errors.New("invalid booking date")
	errInvalidStartTime = errors.New("invalid start time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     string  `json:"serviceId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	VehicleNumber string  `json:"vehicleNumber"`
	VehicleModel  *string `json:"vehicleModel,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	BookingDate   string  `json:"bookingDate"` // "2025-10-15"
	StartTime     string  `json:"startTime"`   // RFC 3339 или "10:00" по времени мастерской
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Message string                  `json:"message"`
	Booking *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Время "HH:MM" отсчитывается в часовом поясе loc.
func (r *CreateBookingRequest) ToUseCaseRequest(loc *time.Location) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	start, err := parseStartTime(r.StartTime, date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidStartTime, err)
	}

	return &createBooking.Request{
		ServiceID:     r.ServiceID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		VehicleNumber: r.VehicleNumber,
		VehicleModel:  r.VehicleModel,
		Notes:         r.Notes,
		Date:          date,
		StartTime:     start,
	}, nil
}

func parseStartTime(value string, date time.Time, loc *time.Location) (time.Time, error) {
	if start, err := time.Parse(time.RFC3339, value); err == nil {
		return start, nil
	}

	ts, err := types.NewTimeStringFromString(value)
	if err != nil {
		return time.Time{}, err
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return ts.On(day, loc)
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Message: "Booking created successfully",
		Booking: models.FromDomainBooking(resp.Booking),
	}
}
