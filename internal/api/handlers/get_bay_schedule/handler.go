package get_bay_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/DINUSHA26/PrimeAuto/internal/api/handlers"
	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

const msgInvalidDate = "invalid date format, expected YYYY-MM-DD"

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

// Handle GET /api/v1/bookings/schedule/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	schedule, err := h.service.BaySchedule(r.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			h.logger.Warn("GET /bookings/schedule/{date} - Invalid date: %q", date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /bookings/schedule/{date} - Failed to build schedule: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/schedule/{date} - Schedule retrieved successfully: date=%s, bays=%d",
		schedule.Date, schedule.TotalBays)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
