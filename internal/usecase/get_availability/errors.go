package get_availability

import (
	"errors"
	"fmt"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("%w: get_availability: service not found", domain.ErrNotFound)

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = fmt.Errorf("%w: get_availability: cannot check availability for past dates", domain.ErrInvalidRequest)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: get_availability: invalid input data", domain.ErrInvalidRequest)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
