package bookings

import (
	"errors"
	"fmt"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: bookings: booking not found", domain.ErrNotFound)

	// ErrInvalidStatus возвращается при попытке установить неизвестный статус
	ErrInvalidStatus = fmt.Errorf("%w: bookings: invalid booking status", domain.ErrInvalidRequest)

	// ErrInvalidTransition возвращается, когда переход статуса запрещен
	ErrInvalidTransition = fmt.Errorf("%w: bookings: status transition not allowed", domain.ErrInvalidRequest)

	// ErrCannotCancel возвращается, когда бронирование уже завершено
	ErrCannotCancel = fmt.Errorf("%w: bookings: completed booking cannot be cancelled", domain.ErrInvalidRequest)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: bookings: invalid input data", domain.ErrInvalidRequest)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
