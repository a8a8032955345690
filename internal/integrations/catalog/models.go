package catalog

import "github.com/DINUSHA26/PrimeAuto/internal/domain"

// Service модель услуги из API витрины
type Service struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Duration    int     `json:"duration"` // минуты
	Price       float64 `json:"price"`
	IsActive    bool    `json:"isActive"`
}

// serviceResponse конверт ответа витрины
type serviceResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    *Service `json:"data"`
}

func (s *Service) toDomain() *domain.Service {
	return &domain.Service{
		ID:              s.ID,
		Name:            s.Name,
		DurationMinutes: s.Duration,
		Price:           s.Price,
		IsActive:        s.IsActive,
	}
}
