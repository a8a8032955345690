package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/DINUSHA26/PrimeAuto/internal/api/handlers"
	"github.com/DINUSHA26/PrimeAuto/internal/service/bookings"
)

const (
	msgInvalidBookingID = "invalid booking id"
	msgNotFound         = "booking not found"
	msgCannotCancel     = "completed booking cannot be cancelled"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel и DELETE /api/v1/bookings/{bookingId}.
// Запись не удаляется, бронирование переводится в статус cancelled.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " /bookings/{id}"

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("%s - Cannot cancel: booking_id=%d", route, bookingID)
			handlers.RespondBadRequest(w, msgCannotCancel)

		default:
			h.logger.Error("%s - Failed to cancel booking: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking cancelled successfully: booking_id=%d, bay=%d", route, bookingID, booking.BayNumber)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(booking))
}
