package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/DINUSHA26/PrimeAuto/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// Пустые параметры не участвуют в фильтрации.
func ToServiceRequest(query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if date := query.Get("date"); date != "" {
		req.Date = &date
	}

	if bayStr := query.Get("bayNumber"); bayStr != "" {
		bay, err := strconv.Atoi(bayStr)
		if err != nil {
			return nil, fmt.Errorf("invalid bayNumber value: %w", err)
		}
		req.BayNumber = &bay
	}

	if email := query.Get("email"); email != "" {
		req.Email = &email
	}

	return req, nil
}
