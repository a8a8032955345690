package get_availability

import (
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID string
	Date      time.Time // Календарная дата, время игнорируется
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date       time.Time
	Service    *domain.Service
	Slots      []domain.Slot // только слоты со свободными боксами, по возрастанию времени
	TotalSlots int
}
