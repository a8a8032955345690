package domain

import "time"

// BookingStatus represents the status of a bay booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// allowedTransitions граф переходов статусов.
// completed и cancelled - терминальные статусы.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// IsValid returns true if the status is one of the known statuses
func (s BookingStatus) IsValid() bool {
	for _, valid := range ValidStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed from s
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo returns true if moving from s to next is allowed.
// Re-applying the current status is always allowed and is a no-op.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking represents a reservation of one service bay for a time interval
type Booking struct {
	ID          int64
	ServiceID   string
	ServiceName string // denormalized for history

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	VehicleNumber string
	VehicleModel  *string
	Notes         *string

	BookingDate time.Time // midnight of the appointment day, shop time zone
	StartTime   time.Time
	EndTime     time.Time
	BayNumber   int
	Status      BookingStatus

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the booking occupies its bay
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// Overlaps returns true if the booking intersects [start, end)
func (b *Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartTime, b.EndTime, start, end)
}

// BookingFilter фильтр выборки бронирований.
// Все поля опциональны; nil/пустое значение - без ограничения.
type BookingFilter struct {
	BayNumber     *int
	DateFrom      *time.Time // включительно
	DateTo        *time.Time // включительно
	Status        *BookingStatus
	StatusNotIn   []BookingStatus
	ExcludeID     *int64
	CustomerEmail *string
}

// ActiveOnDay фильтр активных бронирований за один день
func ActiveOnDay(date time.Time) BookingFilter {
	day := DateOnly(date)
	return BookingFilter{
		DateFrom:    &day,
		DateTo:      &day,
		StatusNotIn: InactiveStatuses,
	}
}

// IsSingleDay returns true if the filter selects exactly one booking date
func (f BookingFilter) IsSingleDay() bool {
	return f.DateFrom != nil && f.DateTo != nil && SameDay(*f.DateFrom, *f.DateTo)
}

// Matches проверяет бронирование на соответствие фильтру в памяти.
// Семантика совпадает с выборкой в хранилищах.
func (f BookingFilter) Matches(b *Booking) bool {
	if f.BayNumber != nil && b.BayNumber != *f.BayNumber {
		return false
	}
	if f.DateFrom != nil && DateOnly(b.BookingDate).Before(DateOnly(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && DateOnly(b.BookingDate).After(DateOnly(*f.DateTo)) {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	for _, s := range f.StatusNotIn {
		if b.Status == s {
			return false
		}
	}
	if f.ExcludeID != nil && b.ID == *f.ExcludeID {
		return false
	}
	if f.CustomerEmail != nil && b.CustomerEmail != *f.CustomerEmail {
		return false
	}
	return true
}
