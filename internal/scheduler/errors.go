package scheduler

import (
	"errors"
	"fmt"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

var (
	ErrInvalidConfig = errors.New("scheduler: invalid config")

	ErrDateInPast          = fmt.Errorf("%w: scheduler: date is in the past", domain.ErrInvalidRequest)
	ErrInvalidDuration     = fmt.Errorf("%w: scheduler: duration must be positive", domain.ErrInvalidRequest)
	ErrInvalidBay          = fmt.Errorf("%w: scheduler: bay number out of range", domain.ErrInvalidRequest)
	ErrInvalidInterval     = fmt.Errorf("%w: scheduler: start time must be before end time", domain.ErrInvalidRequest)
	ErrOutsideWorkingHours = fmt.Errorf("%w: scheduler: booking must be within working hours", domain.ErrInvalidRequest)
	ErrWrongDay            = fmt.Errorf("%w: scheduler: booking must start and end on the booking date", domain.ErrInvalidRequest)

	ErrInternal = errors.New("scheduler: internal error")
)
