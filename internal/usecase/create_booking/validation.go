package create_booking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// normalizeRequest приводит поля клиента к каноническому виду
func normalizeRequest(req *Request) {
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.VehicleNumber = strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	req.VehicleModel = trimOptional(req.VehicleModel)
	req.Notes = trimOptional(req.Notes)
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if req.CustomerEmail == "" {
		return fmt.Errorf("%w: customerEmail is required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(req.CustomerEmail) {
		return fmt.Errorf("%w: please provide a valid email", ErrInvalidInput)
	}
	if req.CustomerPhone == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}
	if req.VehicleNumber == "" {
		return fmt.Errorf("%w: vehicleNumber is required", ErrInvalidInput)
	}
	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: bookingDate is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	return nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
