package domain

// Default bay schedule
const (
	DefaultTotalBays           = 3
	DefaultOpeningTime         = "08:00"
	DefaultClosingTime         = "17:00"
	DefaultSlotIntervalMinutes = 30
)

// Business validation constants
const (
	MinServiceDurationMinutes = 15
	MaxNotesLength            = 500
	MaxTotalBays              = 50
)

// Time format constants
const (
	TimeFormat        = "15:04"      // HH:MM
	DateFormat        = "2006-01-02" // YYYY-MM-DD
	DisplayTimeFormat = "03:04 PM"   // 12-hour, as shown on the storefront
)

// InactiveStatuses статусы, при которых бронирование не занимает бокс
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}
