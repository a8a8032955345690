package domain

// Service is a catalog entry that can be booked into a bay.
// Owned by the storefront catalog; read-only here.
type Service struct {
	ID              string
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
}

// IsBookable returns true if the service can be scheduled
func (s *Service) IsBookable() bool {
	return s.IsActive && s.DurationMinutes >= MinServiceDurationMinutes
}
