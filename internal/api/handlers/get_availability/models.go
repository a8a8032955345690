package get_availability

import (
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	getAvailability "github.com/DINUSHA26/PrimeAuto/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date           string        `json:"date"`
	Service        ServiceInfo   `json:"service"`
	AvailableSlots []SlotPayload `json:"availableSlots"`
	TotalSlots     int           `json:"totalSlots"`
}

// ServiceInfo краткие данные услуги
type ServiceInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

// SlotPayload модель временного слота
type SlotPayload struct {
	StartTime     string `json:"startTime"` // RFC 3339
	EndTime       string `json:"endTime"`   // RFC 3339
	AvailableBays int    `json:"availableBays"`
	DisplayTime   string `json:"displayTime"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(serviceID, dateStr string) (*getAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotPayload, len(resp.Slots))
	for i := range resp.Slots {
		slot := &resp.Slots[i]
		slots[i] = SlotPayload{
			StartTime:     slot.StartTime.Format(time.RFC3339),
			EndTime:       slot.EndTime.Format(time.RFC3339),
			AvailableBays: slot.AvailableBays,
			DisplayTime:   slot.DisplayTime(),
		}
	}

	return &AvailabilityResponse{
		Date: resp.Date.Format(domain.DateFormat),
		Service: ServiceInfo{
			ID:       resp.Service.ID,
			Name:     resp.Service.Name,
			Duration: resp.Service.DurationMinutes,
		},
		AvailableSlots: slots,
		TotalSlots:     resp.TotalSlots,
	}
}
