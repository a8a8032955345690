package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

func TestDayPlan_AvailableBays(t *testing.T) {
	plan := NewDayPlan(3, []*domain.Booking{
		booking(1, 1, clock(9, 0), clock(10, 0), domain.StatusConfirmed),
		booking(2, 2, clock(9, 30), clock(10, 30), domain.StatusPending),
		booking(3, 3, clock(9, 0), clock(12, 0), domain.StatusCancelled),
		booking(4, 7, clock(9, 0), clock(12, 0), domain.StatusPending),
	})

	assert.Equal(t, 1, plan.AvailableBays(clock(9, 0), clock(10, 0)))
	assert.Equal(t, 2, plan.AvailableBays(clock(10, 0), clock(11, 0)))
	assert.Equal(t, 3, plan.AvailableBays(clock(10, 30), clock(11, 30)))
	assert.Equal(t, 3, plan.AvailableBays(clock(8, 0), clock(9, 0)))
}

func TestDayPlan_FindAvailableBay_LowestWins(t *testing.T) {
	plan := NewDayPlan(3, nil)

	bay, ok := plan.FindAvailableBay(clock(9, 0), clock(10, 0), nil)
	assert.True(t, ok)
	assert.Equal(t, 1, bay)

	plan = NewDayPlan(3, []*domain.Booking{
		booking(1, 1, clock(9, 0), clock(10, 0), domain.StatusPending),
	})
	bay, ok = plan.FindAvailableBay(clock(9, 0), clock(10, 0), nil)
	assert.True(t, ok)
	assert.Equal(t, 2, bay)

	plan = NewDayPlan(3, []*domain.Booking{
		booking(1, 1, clock(9, 0), clock(10, 0), domain.StatusPending),
		booking(2, 2, clock(9, 0), clock(10, 0), domain.StatusPending),
		booking(3, 3, clock(9, 0), clock(10, 0), domain.StatusPending),
	})
	_, ok = plan.FindAvailableBay(clock(9, 30), clock(10, 30), nil)
	assert.False(t, ok)

	bay, ok = plan.FindAvailableBay(clock(10, 0), clock(11, 0), nil)
	assert.True(t, ok)
	assert.Equal(t, 1, bay)
}

func TestDayPlan_BookingsOrdered(t *testing.T) {
	plan := NewDayPlan(2, []*domain.Booking{
		booking(1, 1, clock(14, 0), clock(15, 0), domain.StatusPending),
		booking(2, 1, clock(9, 0), clock(10, 0), domain.StatusPending),
	})

	bookings := plan.Bookings(1)
	if assert.Len(t, bookings, 2) {
		assert.Equal(t, int64(2), bookings[0].ID)
		assert.Equal(t, int64(1), bookings[1].ID)
	}
	assert.Empty(t, plan.Bookings(2))
	assert.Equal(t, 2, plan.TotalBays())
}
