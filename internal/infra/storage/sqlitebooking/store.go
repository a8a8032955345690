package sqlitebooking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// Store хранилище бронирований во встроенной SQLite.
// Режим одного узла: для локального запуска и интеграционных тестов.
type Store struct {
	db  *gorm.DB
	loc *time.Location
}

// Open открывает базу по dsn и применяет схему.
// Для ":memory:" пул ограничивается одним соединением, иначе каждое соединение видит свою базу.
func Open(dsn string, loc *time.Location) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpen, err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	store := New(db, loc)
	if err := store.Migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

// New создает хранилище поверх уже открытого соединения gorm
func New(db *gorm.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{db: db, loc: loc}
}

// Migrate создает таблицу bookings
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&bookingRow{}); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrExecQuery, err)
	}
	return nil
}

// Close закрывает соединение с базой
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// conn возвращает транзакцию из контекста или соединение по умолчанию
func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

// Create сохраняет бронирование.
// Пересечение с активным бронированием того же бокса возвращается как ErrSlotNotAvailable.
func (s *Store) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	conn := s.conn(ctx)
	row := fromDomain(b)

	var sameBay []bookingRow
	err := conn.
		Where("booking_date = ? AND bay_number = ? AND status <> ?", row.BookingDate, row.BayNumber, string(domain.StatusCancelled)).
		Find(&sameBay).Error
	if err != nil {
		return nil, fmt.Errorf("%w: Create - check overlap: %w", ErrExecQuery, err)
	}
	for _, existing := range sameBay {
		if domain.Overlaps(existing.StartTime, existing.EndTime, row.StartTime, row.EndTime) {
			return nil, fmt.Errorf("%w: bay %d on %s", ErrSlotNotAvailable, row.BayNumber, row.BookingDate)
		}
	}

	if err := conn.Create(row).Error; err != nil {
		return nil, fmt.Errorf("%w: Create - insert: %w", ErrExecQuery, err)
	}

	b.ID = row.ID
	b.CreatedAt = row.CreatedAt
	b.UpdatedAt = row.UpdatedAt
	return b, nil
}

// GetByID получает бронирование по ID
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var row bookingRow
	err := s.conn(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - select: %w", ErrExecQuery, err)
	}

	b, err := row.toDomain(s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - convert: %w", ErrScanRow, err)
	}
	return b, nil
}

// Find получает бронирования по фильтру, порядок как у PostgreSQL репозитория
func (s *Store) Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	q := s.conn(ctx).Model(&bookingRow{})

	if filter.BayNumber != nil {
		q = q.Where("bay_number = ?", *filter.BayNumber)
	}
	if filter.DateFrom != nil {
		q = q.Where("booking_date >= ?", filter.DateFrom.Format(domain.DateFormat))
	}
	if filter.DateTo != nil {
		q = q.Where("booking_date <= ?", filter.DateTo.Format(domain.DateFormat))
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if len(filter.StatusNotIn) > 0 {
		statuses := make([]string, len(filter.StatusNotIn))
		for i, st := range filter.StatusNotIn {
			statuses[i] = string(st)
		}
		q = q.Where("status NOT IN ?", statuses)
	}
	if filter.ExcludeID != nil {
		q = q.Where("id <> ?", *filter.ExcludeID)
	}
	if filter.CustomerEmail != nil {
		q = q.Where("customer_email = ?", *filter.CustomerEmail)
	}

	if filter.IsSingleDay() {
		q = q.Order("start_time ASC").Order("bay_number ASC")
	} else {
		q = q.Order("booking_date DESC").Order("start_time ASC")
	}

	var rows []bookingRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: Find - select: %w", ErrExecQuery, err)
	}

	bookings := make([]*domain.Booking, 0, len(rows))
	for i := range rows {
		b, err := rows[i].toDomain(s.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: Find - convert: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// UpdateStatus обновляет статус бронирования
func (s *Store) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return s.update(ctx, "UpdateStatus", id, map[string]any{
		"status": string(status),
	})
}

// Cancel переводит бронирование в статус cancelled
func (s *Store) Cancel(ctx context.Context, id int64, cancelledAt time.Time) error {
	return s.update(ctx, "Cancel", id, map[string]any{
		"status":       string(domain.StatusCancelled),
		"cancelled_at": cancelledAt.UTC(),
	})
}

// LockDay ничего не делает: транзакции создания уже сериализованы TxManager
func (s *Store) LockDay(ctx context.Context, _ time.Time) error {
	if _, ok := txFromContext(ctx); !ok {
		return fmt.Errorf("%w: LockDay requires an active transaction", ErrTransaction)
	}
	return nil
}

func (s *Store) update(ctx context.Context, op string, id int64, values map[string]any) error {
	result := s.conn(ctx).Model(&bookingRow{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("%w: %s - update: %w", ErrExecQuery, op, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
