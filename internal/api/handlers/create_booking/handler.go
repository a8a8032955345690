package create_booking

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/api/handlers"
	createBooking "github.com/DINUSHA26/PrimeAuto/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid booking date format, expected YYYY-MM-DD"
	msgInvalidTime        = "invalid start time, expected RFC 3339 or HH:MM"
	msgServiceNotFound    = "service not found"
	msgStartInPast        = "cannot book for past time"
	msgInvalidTimeSlot    = "bookings must be within working hours"
	msgNoBayAvailable     = "no bays available for the selected time slot, please choose a different time"
)

type Handler struct {
	useCase  CreateBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateBookingUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidStartTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrNoBayAvailable):
			h.logger.Warn("POST /bookings - No bay available: service_id=%s, start=%s", req.ServiceID, req.StartTime)
			handlers.RespondConflict(w, msgNoBayAvailable)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrStartInPast):
			h.logger.Warn("POST /bookings - Start in past: start=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, inputErrorMessage(err))

		default:
			h.logger.Error("POST /bookings - Failed to create booking: service_id=%s, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, bay=%d",
		result.Booking.ID, result.Booking.BayNumber)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// inputErrorMessage возвращает причину ошибки валидации без префикса пакета
func inputErrorMessage(err error) string {
	return strings.TrimPrefix(err.Error(), createBooking.ErrInvalidInput.Error()+": ")
}
