package sqlitebooking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/pkg/ptr"
)

var (
	colombo = time.FixedZone("+0530", 5*60*60+30*60)
	day     = time.Date(2026, 10, 20, 0, 0, 0, 0, colombo)
)

func clock(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", colombo)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newBooking(bay int, from, to time.Time) *domain.Booking {
	return &domain.Booking{
		ServiceID:     "svc-1",
		ServiceName:   "Oil change",
		CustomerName:  "Nimal Perera",
		CustomerEmail: "nimal@example.com",
		CustomerPhone: "0771234567",
		VehicleNumber: "CAB-1234",
		VehicleModel:  ptr.Ptr("Toyota Axio"),
		BookingDate:   day,
		StartTime:     from,
		EndTime:       to,
		BayNumber:     bay,
		Status:        domain.StatusPending,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newBooking(1, clock(9, 0), clock(10, 0)))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.BayNumber)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, got.StartTime.Equal(clock(9, 0)))
	assert.True(t, got.EndTime.Equal(clock(10, 0)))
	assert.True(t, got.BookingDate.Equal(day))
	assert.Equal(t, "Toyota Axio", ptr.Value(got.VehicleModel))
	assert.Nil(t, got.Notes)

	_, err = store.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestStore_CreateRejectsOverlap(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, newBooking(1, clock(9, 0), clock(10, 0)))
	require.NoError(t, err)

	_, err = store.Create(ctx, newBooking(1, clock(9, 30), clock(10, 30)))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// соседний бокс и граничащий интервал допустимы
	_, err = store.Create(ctx, newBooking(2, clock(9, 30), clock(10, 30)))
	require.NoError(t, err)
	_, err = store.Create(ctx, newBooking(1, clock(10, 0), clock(11, 0)))
	require.NoError(t, err)
}

func TestStore_CancelFreesBay(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newBooking(1, clock(9, 0), clock(10, 0)))
	require.NoError(t, err)

	require.NoError(t, store.Cancel(ctx, created.ID, clock(8, 0)))

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, got.CancelledAt.Equal(clock(8, 0)))

	_, err = store.Create(ctx, newBooking(1, clock(9, 0), clock(10, 0)))
	require.NoError(t, err)

	assert.ErrorIs(t, store.Cancel(ctx, 999, clock(8, 0)), ErrBookingNotFound)
}

func TestStore_UpdateStatus(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newBooking(1, clock(9, 0), clock(10, 0)))
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, created.ID, domain.StatusConfirmed))
	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	assert.ErrorIs(t, store.UpdateStatus(ctx, 999, domain.StatusConfirmed), ErrBookingNotFound)
}

func TestStore_Find(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	late, err := store.Create(ctx, newBooking(2, clock(14, 0), clock(15, 0)))
	require.NoError(t, err)
	early, err := store.Create(ctx, newBooking(1, clock(9, 0), clock(10, 0)))
	require.NoError(t, err)
	cancelled, err := store.Create(ctx, newBooking(3, clock(9, 0), clock(10, 0)))
	require.NoError(t, err)
	require.NoError(t, store.Cancel(ctx, cancelled.ID, clock(8, 0)))

	other := newBooking(1, clock(9, 0).AddDate(0, 0, 1), clock(10, 0).AddDate(0, 0, 1))
	other.BookingDate = day.AddDate(0, 0, 1)
	other.CustomerEmail = "kamal@example.com"
	_, err = store.Create(ctx, other)
	require.NoError(t, err)

	active, err := store.Find(ctx, domain.ActiveOnDay(day))
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, early.ID, active[0].ID)
	assert.Equal(t, late.ID, active[1].ID)

	filter := domain.ActiveOnDay(day)
	filter.BayNumber = ptr.Ptr(2)
	onBay, err := store.Find(ctx, filter)
	require.NoError(t, err)
	require.Len(t, onBay, 1)
	assert.Equal(t, late.ID, onBay[0].ID)

	filter = domain.ActiveOnDay(day)
	filter.ExcludeID = ptr.Ptr(early.ID)
	excluded, err := store.Find(ctx, filter)
	require.NoError(t, err)
	require.Len(t, excluded, 1)

	byEmail, err := store.Find(ctx, domain.BookingFilter{CustomerEmail: ptr.Ptr("kamal@example.com")})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)

	status := domain.StatusCancelled
	byStatus, err := store.Find(ctx, domain.BookingFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, cancelled.ID, byStatus[0].ID)

	// период: сначала более поздний день
	all, err := store.Find(ctx, domain.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "kamal@example.com", all[0].CustomerEmail)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	store := newStore(t)
	tm := NewTxManager(store)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tm.Do(ctx, func(ctx context.Context) error {
		require.NoError(t, store.LockDay(ctx, day))
		if _, err := store.Create(ctx, newBooking(1, clock(9, 0), clock(10, 0))); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bookings, err := store.Find(ctx, domain.ActiveOnDay(day))
	require.NoError(t, err)
	assert.Empty(t, bookings)

	assert.ErrorIs(t, store.LockDay(ctx, day), ErrTransaction)
}
