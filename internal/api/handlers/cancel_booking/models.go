package cancel_booking

import (
	"github.com/DINUSHA26/PrimeAuto/internal/service/bookings/models"
)

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Message string                  `json:"message"`
	Booking *models.BookingResponse `json:"booking"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(booking *models.BookingResponse) *CancelBookingResponse {
	return &CancelBookingResponse{
		Message: "Booking cancelled successfully",
		Booking: booking,
	}
}
