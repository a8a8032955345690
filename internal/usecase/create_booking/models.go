package create_booking

import (
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	VehicleNumber string
	VehicleModel  *string
	Notes         *string
	Date          time.Time // Календарная дата бронирования, время игнорируется
	StartTime     time.Time // Абсолютное время начала
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
	Service *domain.Service
}
