package sqlitebooking

import (
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// bookingRow строка таблицы bookings.
// Время хранится в UTC, booking_date - строкой YYYY-MM-DD.
type bookingRow struct {
	ID            int64   `gorm:"primaryKey;autoIncrement"`
	ServiceID     string  `gorm:"type:text;not null"`
	ServiceName   string  `gorm:"type:text;not null;default:''"`
	CustomerName  string  `gorm:"type:text;not null"`
	CustomerEmail string  `gorm:"type:text;not null;index"`
	CustomerPhone string  `gorm:"type:text;not null"`
	VehicleNumber string  `gorm:"type:text;not null"`
	VehicleModel  *string `gorm:"type:text"`
	Notes         *string `gorm:"type:varchar(500)"`

	BookingDate string    `gorm:"type:varchar(10);not null;index:idx_bookings_date_bay"`
	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time `gorm:"not null"`
	BayNumber   int       `gorm:"not null;index:idx_bookings_date_bay"`
	Status      string    `gorm:"type:varchar(32);not null;index"`

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (bookingRow) TableName() string {
	return "bookings"
}

func fromDomain(b *domain.Booking) *bookingRow {
	return &bookingRow{
		ID:            b.ID,
		ServiceID:     b.ServiceID,
		ServiceName:   b.ServiceName,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		VehicleNumber: b.VehicleNumber,
		VehicleModel:  b.VehicleModel,
		Notes:         b.Notes,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		StartTime:     b.StartTime.UTC(),
		EndTime:       b.EndTime.UTC(),
		BayNumber:     b.BayNumber,
		Status:        string(b.Status),
	}
}

func (r *bookingRow) toDomain(loc *time.Location) (*domain.Booking, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.BookingDate, loc)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		ID:            r.ID,
		ServiceID:     r.ServiceID,
		ServiceName:   r.ServiceName,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		VehicleNumber: r.VehicleNumber,
		VehicleModel:  r.VehicleModel,
		Notes:         r.Notes,
		BookingDate:   date,
		StartTime:     r.StartTime.In(loc),
		EndTime:       r.EndTime.In(loc),
		BayNumber:     r.BayNumber,
		Status:        domain.BookingStatus(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.CancelledAt != nil {
		t := r.CancelledAt.In(loc)
		b.CancelledAt = &t
	}
	return b, nil
}
