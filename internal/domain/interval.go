package domain

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any instant.
// Back-to-back intervals (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// DateOnly обрезает время до полуночи в часовом поясе значения
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay проверяет, что две даты относятся к одному и тому же календарному дню
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня (сравниваются только даты)
func IsDateInPast(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now.In(date.Location())))
}
