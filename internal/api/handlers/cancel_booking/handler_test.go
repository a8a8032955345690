package cancel_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DINUSHA26/PrimeAuto/internal/service/bookings"
	"github.com/DINUSHA26/PrimeAuto/internal/service/bookings/models"
	"github.com/DINUSHA26/PrimeAuto/pkg/logger"
)

type fakeService struct {
	cancelled []int64
}

func (f *fakeService) Cancel(_ context.Context, id int64) (*models.BookingResponse, error) {
	switch id {
	case 404:
		return nil, bookings.ErrBookingNotFound
	case 409:
		return nil, bookings.ErrCannotCancel
	}
	f.cancelled = append(f.cancelled, id)
	return &models.BookingResponse{ID: id, BayNumber: 1, Status: "cancelled"}, nil
}

func newRouter(svc BookingService) *mux.Router {
	h := NewHandler(svc, logger.Discard())
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}/cancel", h.Handle).Methods(http.MethodPatch)
	r.HandleFunc("/api/v1/bookings/{bookingId}", h.Handle).Methods(http.MethodDelete)
	return r
}

func TestHandle_PatchAndDelete(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/1/cancel", nil),
		httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/2", nil),
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body CancelBookingResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "cancelled", body.Booking.Status)
	}

	assert.Equal(t, []int64{1, 2}, svc.cancelled)
}

func TestHandle_Errors(t *testing.T) {
	r := newRouter(&fakeService{})

	tests := []struct {
		target string
		want   int
	}{
		{"/api/v1/bookings/404/cancel", http.StatusNotFound},
		{"/api/v1/bookings/409/cancel", http.StatusBadRequest},
		{"/api/v1/bookings/x/cancel", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, tt.target, nil))
		assert.Equal(t, tt.want, rec.Code, tt.target)
	}
}
