package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/pkg/dbmetrics"
	"github.com/DINUSHA26/PrimeAuto/pkg/ptr"
)

func TestDayLockKey(t *testing.T) {
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int32(20261020), dayLockKey(date))
	assert.Equal(t, int32(20270101), dayLockKey(time.Date(2027, 1, 1, 23, 59, 0, 0, time.UTC)))
}

func TestIsExclusionViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pq.Error{Code: codeExclusionViolation})
	assert.True(t, isExclusionViolation(wrapped))

	assert.False(t, isExclusionViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isExclusionViolation(errors.New("boom")))
}

func TestLockDay_RequiresTransaction(t *testing.T) {
	repo := NewRepository(nil, nil)

	err := repo.LockDay(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrTransaction)
}

var ist = time.FixedZone("IST", 5*60*60+30*60)

func newMockRepository(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewRepository(db, ist), db, mock
}

func bookingRows() *sqlmock.Rows {
	start := time.Date(2026, 10, 21, 3, 30, 0, 0, time.UTC)
	created := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingColumns).AddRow(
		int64(7), "svc-1", "Oil change", "Nimal Perera", "nimal@example.com", "0771234567",
		"CAB-1234", "Toyota Axio", nil,
		time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), start, start.Add(time.Hour),
		int64(2), "confirmed", nil, created, created,
	)
}

func selectPrefix() string {
	return "SELECT " + strings.Join(bookingColumns, ", ") + " FROM bookings"
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectPrefix()+" WHERE id = $1") + "$").
		WithArgs(int64(7)).
		WillReturnRows(bookingRows())

	b, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, 2, b.BayNumber)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	require.NotNil(t, b.VehicleModel)
	assert.Equal(t, "Toyota Axio", *b.VehicleModel)
	assert.Nil(t, b.Notes)
	assert.Nil(t, b.CancelledAt)
	assert.Equal(t, time.Date(2026, 10, 21, 0, 0, 0, 0, ist), b.BookingDate)
	assert.True(t, b.StartTime.Equal(time.Date(2026, 10, 21, 9, 0, 0, 0, ist)))
	assert.Equal(t, ist, b.StartTime.Location())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetByID_LocksRowInTransaction(t *testing.T) {
	repo, db, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(bookingRows())
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = repo.GetByID(dbmetrics.WithTx(context.Background(), tx), 7)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
}

func TestRepository_Find_SingleDayFilter(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	date := time.Date(2026, 10, 21, 0, 0, 0, 0, ist)
	filter := domain.ActiveOnDay(date)
	filter.BayNumber = ptr.Ptr(2)
	filter.CustomerEmail = ptr.Ptr("nimal@example.com")

	mock.ExpectQuery(regexp.QuoteMeta(selectPrefix()+
		" WHERE bay_number = $1 AND booking_date >= $2 AND booking_date <= $3"+
		" AND status NOT IN ($4) AND customer_email = $5"+
		" ORDER BY start_time ASC, bay_number ASC")).
		WithArgs(2, "2026-10-21", "2026-10-21", "cancelled", "nimal@example.com").
		WillReturnRows(bookingRows())

	bookings, err := repo.Find(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, int64(7), bookings[0].ID)
}

func TestRepository_Find_PeriodOrdering(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	status := domain.StatusPending
	mock.ExpectQuery(regexp.QuoteMeta(selectPrefix() +
		" WHERE status = $1 AND id <> $2 ORDER BY booking_date DESC, start_time ASC")).
		WithArgs("pending", int64(3)).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	bookings, err := repo.Find(context.Background(), domain.BookingFilter{Status: &status, ExcludeID: ptr.Ptr(int64(3))})
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	created := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO bookings \(.+\) VALUES \(.+\) RETURNING id, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), created, created))

	start := time.Date(2026, 10, 21, 9, 0, 0, 0, ist)
	b, err := repo.Create(context.Background(), &domain.Booking{
		ServiceID:     "svc-1",
		CustomerName:  "Nimal Perera",
		CustomerEmail: "nimal@example.com",
		CustomerPhone: "0771234567",
		VehicleNumber: "CAB-1234",
		BookingDate:   time.Date(2026, 10, 21, 0, 0, 0, 0, ist),
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		BayNumber:     1,
		Status:        domain.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), b.ID)
	assert.Equal(t, created, b.CreatedAt)
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: codeExclusionViolation})

	start := time.Date(2026, 10, 21, 9, 0, 0, 0, ist)
	_, err := repo.Create(context.Background(), &domain.Booking{
		BookingDate: time.Date(2026, 10, 21, 0, 0, 0, 0, ist),
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		BayNumber:   1,
		Status:      domain.StatusPending,
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, ErrExecQuery)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	query := regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2")
	mock.ExpectExec(query).WithArgs("confirmed", int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("confirmed", int64(404)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), 7, domain.StatusConfirmed))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), 404, domain.StatusConfirmed), ErrBookingNotFound)
}

func TestRepository_Cancel(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	cancelledAt := time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1, cancelled_at = $2, updated_at = NOW() WHERE id = $3")).
		WithArgs("cancelled", cancelledAt, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), 7, cancelledAt))
}

func TestRepository_LockDay(t *testing.T) {
	repo, db, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1, $2)")).
		WithArgs(int64(advisoryLockNamespace), int64(20261021)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	require.NoError(t, repo.LockDay(dbmetrics.WithTx(context.Background(), tx), time.Date(2026, 10, 21, 0, 0, 0, 0, ist)))
	require.NoError(t, tx.Commit())
}
