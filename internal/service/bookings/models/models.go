package models

import (
	"errors"
	"strings"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListBookingsRequest фильтры списка бронирований, все опциональны
type ListBookingsRequest struct {
	Status    *string
	Date      *string // "2025-10-15"
	BayNumber *int
	Email     *string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	ServiceID     string  `json:"serviceId"`
	ServiceName   string  `json:"serviceName"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	VehicleNumber string  `json:"vehicleNumber"`
	VehicleModel  *string `json:"vehicleModel,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // RFC 3339
	EndTime     string `json:"endTime"`     // RFC 3339
	DisplayTime string `json:"displayTime"` // "09:30 AM"
	BayNumber   int    `json:"bayNumber"`
	Status      string `json:"status"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Count    int               `json:"count"`
	Bookings []BookingResponse `json:"bookings"`
}

// BayScheduleResponse расписание боксов на день
type BayScheduleResponse struct {
	Date      string     `json:"date"`
	TotalBays int        `json:"totalBays"`
	Bays      []BayEntry `json:"bays"`
}

// BayEntry бронирования одного бокса, по времени начала
type BayEntry struct {
	BayNumber int               `json:"bayNumber"`
	Bookings  []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
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
		StartTime:     b.StartTime.Format(time.RFC3339),
		EndTime:       b.EndTime.Format(time.RFC3339),
		DisplayTime:   b.StartTime.Format(domain.DisplayTimeFormat),
		BayNumber:     b.BayNumber,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Count:    len(bookings),
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(strings.ToLower(strings.TrimSpace(status)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
