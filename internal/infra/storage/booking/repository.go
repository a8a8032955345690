package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/pkg/dbmetrics"
	"github.com/DINUSHA26/PrimeAuto/pkg/psqlbuilder"
)

const (
	tableBookings = "bookings"

	// sqlstate exclusion_violation
	codeExclusionViolation = "23P01"

	// Пространство имен advisory-блокировок бронирований ("PA")
	advisoryLockNamespace int32 = 0x5041
)

var bookingColumns = []string{
	"id",
	"service_id",
	"service_name",
	"customer_name",
	"customer_email",
	"customer_phone",
	"vehicle_number",
	"vehicle_model",
	"notes",
	"booking_date",
	"start_time",
	"end_time",
	"bay_number",
	"status",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований в PostgreSQL
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория бронирований.
// loc - часовой пояс мастерской, в нем интерпретируется booking_date.
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
// Пересечение с активным бронированием того же бокса отсекается
// exclusion constraint и возвращается как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"service_id",
			"service_name",
			"customer_name",
			"customer_email",
			"customer_phone",
			"vehicle_number",
			"vehicle_model",
			"notes",
			"booking_date",
			"start_time",
			"end_time",
			"bay_number",
			"status",
		).
		Values(
			booking.ServiceID,
			booking.ServiceName,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.VehicleNumber,
			booking.VehicleModel,
			booking.Notes,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.EndTime,
			booking.BayNumber,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, fmt.Errorf("%w: bay %d on %s", ErrSlotNotAvailable, booking.BayNumber, booking.BookingDate.Format(domain.DateFormat))
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется до commit (FOR UPDATE),
// чтобы проверка перехода статуса и запись не разъехались.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// Find получает бронирования по фильтру.
// Для одного дня сортирует по времени начала и номеру бокса,
// для периода - сначала новые дни, внутри дня по времени начала.
func (r *Repository) Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).From(tableBookings)

	if filter.BayNumber != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"bay_number": *filter.BayNumber})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.DateTo.Format(domain.DateFormat)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if len(filter.StatusNotIn) > 0 {
		statuses := make([]string, len(filter.StatusNotIn))
		for i, s := range filter.StatusNotIn {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statuses})
	}
	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}
	if filter.CustomerEmail != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_email": *filter.CustomerEmail})
	}

	if filter.IsSingleDay() {
		selectBuilder = selectBuilder.OrderBy("start_time ASC", "bay_number ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "start_time ASC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Find - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Find - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingleRow(ctx, executor, "UpdateStatus", query, args)
}

// Cancel переводит бронирование в статус cancelled и фиксирует время отмены.
// Запись не удаляется, бокс освобождается за счет смены статуса.
func (r *Repository) Cancel(ctx context.Context, id int64, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingleRow(ctx, executor, "Cancel", query, args)
}

// LockDay берет транзакционную advisory-блокировку на день бронирования.
// Должна быть первым запросом READ COMMITTED транзакции: последующие запросы
// видят бронирования, зафиксированные предыдущим владельцем блокировки.
// Блокировка снимается при commit/rollback.
func (r *Repository) LockDay(ctx context.Context, date time.Time) error {
	executor, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: LockDay requires an active transaction", ErrTransaction)
	}

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(?, ?)", advisoryLockNamespace, dayLockKey(date))).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LockDay - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockDay - execute: %w", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) execSingleRow(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var vehicleModel, notes sql.NullString
	var cancelledAt, createdAt, updatedAt sql.NullTime
	var bookingDate time.Time

	err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.ServiceName,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.VehicleNumber,
		&vehicleModel,
		&notes,
		&bookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.BayNumber,
		&booking.Status,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// DATE приходит как полночь UTC, переносим календарный день в пояс мастерской
	y, m, d := bookingDate.Date()
	booking.BookingDate = time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	booking.StartTime = booking.StartTime.In(r.loc)
	booking.EndTime = booking.EndTime.In(r.loc)

	if vehicleModel.Valid {
		booking.VehicleModel = &vehicleModel.String
	}
	if notes.Valid {
		booking.Notes = &notes.String
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time.In(r.loc)
		booking.CancelledAt = &t
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// dayLockKey ключ блокировки дня в виде YYYYMMDD
func dayLockKey(date time.Time) int32 {
	y, m, d := date.Date()
	return int32(y*10000 + int(m)*100 + d)
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeExclusionViolation
}
