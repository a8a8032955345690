package get_availability

import (
	"errors"
	"net/http"

	"github.com/DINUSHA26/PrimeAuto/internal/api/handlers"
	getAvailability "github.com/DINUSHA26/PrimeAuto/internal/usecase/get_availability"
)

const (
	msgMissingParams   = "serviceId and date are required"
	msgInvalidDate     = "invalid date format, expected YYYY-MM-DD"
	msgServiceNotFound = "service not found"
	msgPastDate        = "cannot check availability for past dates"
	msgInvalidInput    = "invalid availability request"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/availability
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID := r.URL.Query().Get("serviceId")
	dateStr := r.URL.Query().Get("date")
	if serviceID == "" || dateStr == "" {
		h.logger.Warn("GET /bookings/availability - Missing serviceId or date")
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	useCaseReq, err := ToUseCaseRequest(serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /bookings/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /bookings/availability - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrInvalidDate):
			h.logger.Warn("GET /bookings/availability - Past date: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /bookings/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /bookings/availability - Failed to get slots: service_id=%s, date=%s, error=%v",
				serviceID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/availability - Slots retrieved: service_id=%s, date=%s, slots_count=%d",
		serviceID, dateStr, result.TotalSlots)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
