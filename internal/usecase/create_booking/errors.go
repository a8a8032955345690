package create_booking

import (
	"errors"
	"fmt"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_booking: invalid input data", domain.ErrInvalidRequest)

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("%w: create_booking: service not found", domain.ErrNotFound)

	// ErrStartInPast возвращается при попытке забронировать прошедшее время
	ErrStartInPast = fmt.Errorf("%w: create_booking: cannot book for past time", domain.ErrInvalidRequest)

	// ErrInvalidTimeSlot возвращается, когда бронирование выходит за рабочие часы или дату
	ErrInvalidTimeSlot = fmt.Errorf("%w: create_booking: invalid time slot", domain.ErrInvalidRequest)

	// ErrNoBayAvailable возвращается, когда все боксы заняты на выбранное время
	ErrNoBayAvailable = fmt.Errorf("%w: create_booking: no bays available for the selected time slot", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
