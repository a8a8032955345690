package domain

import "time"

// Slot is a candidate appointment interval with its bay availability
type Slot struct {
	StartTime     time.Time
	EndTime       time.Time
	AvailableBays int
	TotalBays     int
}

// DisplayTime returns the start time formatted for customers ("09:30 AM")
func (s *Slot) DisplayTime() string {
	return s.StartTime.Format(DisplayTimeFormat)
}
