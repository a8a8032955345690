package sqlitebooking

import (
	"errors"

	"github.com/DINUSHA26/PrimeAuto/internal/infra/storage/booking"
)

// Ошибки совпадают с PostgreSQL репозиторием, чтобы вызывающий код
// не зависел от выбранного хранилища.
var (
	ErrBookingNotFound  = booking.ErrBookingNotFound
	ErrSlotNotAvailable = booking.ErrSlotNotAvailable
	ErrExecQuery        = booking.ErrExecQuery
	ErrScanRow          = booking.ErrScanRow
	ErrTransaction      = booking.ErrTransaction

	ErrOpen = errors.New("sqlitebooking: failed to open database")
)
