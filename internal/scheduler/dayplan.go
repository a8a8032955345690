package scheduler

import (
	"slices"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// DayPlan занятость боксов за один день, построенная из одной выборки бронирований.
// Используется, чтобы не ходить в хранилище на каждый слот.
type DayPlan struct {
	totalBays int
	byBay     map[int][]*domain.Booking
}

// NewDayPlan раскладывает бронирования по боксам.
// Отмененные бронирования и бронирования вне диапазона боксов игнорируются.
func NewDayPlan(totalBays int, bookings []*domain.Booking) *DayPlan {
	byBay := make(map[int][]*domain.Booking, totalBays)
	for _, b := range bookings {
		if b == nil || !b.IsActive() || b.BayNumber < 1 || b.BayNumber > totalBays {
			continue
		}
		byBay[b.BayNumber] = append(byBay[b.BayNumber], b)
	}

	for bay := range byBay {
		slices.SortFunc(byBay[bay], func(a, b *domain.Booking) int {
			return a.StartTime.Compare(b.StartTime)
		})
	}

	return &DayPlan{totalBays: totalBays, byBay: byBay}
}

// IsBayAvailable returns true if no active booking on bay overlaps [start, end)
func (p *DayPlan) IsBayAvailable(bay int, start, end time.Time, excludeBookingID *int64) bool {
	for _, b := range p.byBay[bay] {
		if excludeBookingID != nil && b.ID == *excludeBookingID {
			continue
		}
		if b.Overlaps(start, end) {
			return false
		}
	}
	return true
}

// FindAvailableBay возвращает бокс с наименьшим номером, свободный на [start, end)
func (p *DayPlan) FindAvailableBay(start, end time.Time, excludeBookingID *int64) (int, bool) {
	for bay := 1; bay <= p.totalBays; bay++ {
		if p.IsBayAvailable(bay, start, end, excludeBookingID) {
			return bay, true
		}
	}
	return 0, false
}

// AvailableBays считает боксы, свободные на всем интервале [start, end)
func (p *DayPlan) AvailableBays(start, end time.Time) int {
	available := 0
	for bay := 1; bay <= p.totalBays; bay++ {
		if p.IsBayAvailable(bay, start, end, nil) {
			available++
		}
	}
	return available
}

// Bookings возвращает бронирования бокса, упорядоченные по времени начала
func (p *DayPlan) Bookings(bay int) []*domain.Booking {
	return slices.Clone(p.byBay[bay])
}

// TotalBays returns the number of bays in the plan
func (p *DayPlan) TotalBays() int {
	return p.totalBays
}
