package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/internal/infra/storage/sqlitebooking"
	catalogClient "github.com/DINUSHA26/PrimeAuto/internal/integrations/catalog"
	"github.com/DINUSHA26/PrimeAuto/internal/scheduler"
	"github.com/DINUSHA26/PrimeAuto/pkg/logger"
	"github.com/DINUSHA26/PrimeAuto/pkg/metrics"
	"github.com/DINUSHA26/PrimeAuto/pkg/ptr"
)

var (
	now      = time.Date(2026, 10, 20, 7, 0, 0, 0, time.UTC)
	tomorrow = time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)
)

func at(hour, minute int) time.Time {
	return tomorrow.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeCatalog struct {
	services map[string]*domain.Service
	err      error
}

func (c *fakeCatalog) GetService(_ context.Context, id string) (*domain.Service, error) {
	if c.err != nil {
		return nil, c.err
	}
	svc, ok := c.services[id]
	if !ok {
		return nil, catalogClient.ErrServiceNotFound
	}
	return svc, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	created []*domain.Booking
}

func (n *fakeNotifier) BookingCreated(_ context.Context, b *domain.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b)
}

type fixture struct {
	uc       *UseCase
	store    *sqlitebooking.Store
	catalog  *fakeCatalog
	notifier *fakeNotifier
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T, totalBays int) *fixture {
	t.Helper()

	store, err := sqlitebooking.Open(":memory:", time.UTC)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := scheduler.DefaultConfig()
	cfg.TotalBays = totalBays
	sched, err := scheduler.New(cfg, store)
	require.NoError(t, err)

	catalog := &fakeCatalog{services: map[string]*domain.Service{
		"oil":    {ID: "oil", Name: "Oil change", DurationMinutes: 60, Price: 8500, IsActive: true},
		"wash":   {ID: "wash", Name: "Body wash", DurationMinutes: 30, Price: 2500, IsActive: true},
		"legacy": {ID: "legacy", Name: "Old tune-up", DurationMinutes: 60, IsActive: false},
		"quick":  {ID: "quick", Name: "Tyre check", DurationMinutes: 5, IsActive: true},
	}}
	notifier := &fakeNotifier{}
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	uc := NewUseCase(store, sched, catalog, sqlitebooking.NewTxManager(store), notifier, m, logger.Discard()).
		WithTimeProvider(fixedClock{now: now})

	return &fixture{uc: uc, store: store, catalog: catalog, notifier: notifier, metrics: m}
}

func request(serviceID string, start time.Time) *Request {
	return &Request{
		ServiceID:     serviceID,
		CustomerName:  "  Nimal Perera ",
		CustomerEmail: " Nimal.Perera@Example.com ",
		CustomerPhone: "0771234567",
		VehicleNumber: "cab-1234",
		VehicleModel:  ptr.Ptr("Toyota Axio"),
		Date:          tomorrow,
		StartTime:     start,
	}
}

func TestExecute_ExampleScenario(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		resp, err := f.uc.Execute(ctx, request("oil", at(9, 0)))
		require.NoError(t, err)
		assert.Equal(t, want, resp.Booking.BayNumber)
		assert.Equal(t, domain.StatusPending, resp.Booking.Status)
		assert.Equal(t, at(10, 0), resp.Booking.EndTime)
	}

	_, err := f.uc.Execute(ctx, request("oil", at(9, 0)))
	assert.ErrorIs(t, err, ErrNoBayAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)

	resp, err := f.uc.Execute(ctx, request("oil", at(10, 0)))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Booking.BayNumber)

	assert.Len(t, f.notifier.created, 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(f.metrics.BookingOutcomes.WithLabelValues(metrics.OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingOutcomes.WithLabelValues(metrics.OutcomeConflict)))
}

func TestExecute_NormalizesCustomerFields(t *testing.T) {
	f := newFixture(t, 3)

	resp, err := f.uc.Execute(context.Background(), request("oil", at(9, 0)))
	require.NoError(t, err)

	b := resp.Booking
	assert.NotZero(t, b.ID)
	assert.Equal(t, "Nimal Perera", b.CustomerName)
	assert.Equal(t, "nimal.perera@example.com", b.CustomerEmail)
	assert.Equal(t, "CAB-1234", b.VehicleNumber)
	assert.Equal(t, "Oil change", b.ServiceName)
	assert.Equal(t, tomorrow, b.BookingDate)

	stored, err := f.store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "CAB-1234", stored.VehicleNumber)
}

func TestExecute_BackToBackSameBay(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, request("oil", at(9, 0)))
	require.NoError(t, err)
	second, err := f.uc.Execute(ctx, request("oil", at(10, 0)))
	require.NoError(t, err)

	assert.Equal(t, 1, first.Booking.BayNumber)
	assert.Equal(t, 1, second.Booking.BayNumber)

	_, err = f.uc.Execute(ctx, request("wash", at(9, 30)))
	assert.ErrorIs(t, err, ErrNoBayAvailable)
}

func TestExecute_CancellationFreesBay(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, request("oil", at(9, 0)))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request("oil", at(9, 0)))
	require.ErrorIs(t, err, ErrNoBayAvailable)

	require.NoError(t, f.store.Cancel(ctx, first.Booking.ID, now))

	resp, err := f.uc.Execute(ctx, request("oil", at(9, 0)))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Booking.BayNumber)
}

func TestExecute_WorkingHoursBoundary(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, request("wash", at(16, 30)))
	require.NoError(t, err)
	assert.Equal(t, at(17, 0), resp.Booking.EndTime)

	_, err = f.uc.Execute(ctx, request("wash", at(16, 45)))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = f.uc.Execute(ctx, request("wash", at(7, 30)))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	// время начала должно приходиться на дату бронирования
	_, err = f.uc.Execute(ctx, request("wash", at(9, 0).AddDate(0, 0, 1)))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"missing name", func(r *Request) { r.CustomerName = "  " }, ErrInvalidInput},
		{"missing email", func(r *Request) { r.CustomerEmail = "" }, ErrInvalidInput},
		{"invalid email", func(r *Request) { r.CustomerEmail = "nimal@" }, ErrInvalidInput},
		{"missing phone", func(r *Request) { r.CustomerPhone = "" }, ErrInvalidInput},
		{"missing vehicle", func(r *Request) { r.VehicleNumber = "" }, ErrInvalidInput},
		{"missing service", func(r *Request) { r.ServiceID = "" }, ErrInvalidInput},
		{"missing date", func(r *Request) { r.Date = time.Time{} }, ErrInvalidInput},
		{"missing start", func(r *Request) { r.StartTime = time.Time{} }, ErrInvalidInput},
		{"long notes", func(r *Request) { r.Notes = ptr.Ptr(string(make([]rune, domain.MaxNotesLength+1))) }, ErrInvalidInput},
		{"unknown service", func(r *Request) { r.ServiceID = "nope" }, ErrServiceNotFound},
		{"inactive service", func(r *Request) { r.ServiceID = "legacy" }, ErrServiceNotFound},
		{"service shorter than minimum", func(r *Request) { r.ServiceID = "quick" }, ErrServiceNotFound},
		{"past start", func(r *Request) { r.Date = now; r.StartTime = now.Add(-time.Hour) }, ErrStartInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 3)
			req := request("oil", at(9, 0))
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.created)
		})
	}
}

func TestExecute_CatalogFailure(t *testing.T) {
	f := newFixture(t, 3)
	f.catalog.err = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), request("oil", at(9, 0)))
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_ConcurrentRequestsOneBay(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.uc.Execute(ctx, request("oil", at(9, 0)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrNoBayAvailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	bookings, err := f.store.Find(ctx, domain.ActiveOnDay(tomorrow))
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

// recordingStore фиксирует порядок обращений к хранилищу внутри транзакции
type recordingStore struct {
	*sqlitebooking.Store

	mu    sync.Mutex
	calls []string
}

func (s *recordingStore) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *recordingStore) LockDay(ctx context.Context, date time.Time) error {
	s.record("lock")
	return s.Store.LockDay(ctx, date)
}

func (s *recordingStore) Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	s.record("find")
	return s.Store.Find(ctx, filter)
}

func (s *recordingStore) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.record("create")
	return s.Store.Create(ctx, b)
}

func TestExecute_LocksDayBeforeReadingBookings(t *testing.T) {
	base, err := sqlitebooking.Open(":memory:", time.UTC)
	require.NoError(t, err)
	t.Cleanup(func() { _ = base.Close() })

	store := &recordingStore{Store: base}
	sched, err := scheduler.New(scheduler.DefaultConfig(), store)
	require.NoError(t, err)

	catalog := &fakeCatalog{services: map[string]*domain.Service{
		"oil": {ID: "oil", Name: "Oil change", DurationMinutes: 60, IsActive: true},
	}}
	uc := NewUseCase(store, sched, catalog, sqlitebooking.NewTxManager(base), &fakeNotifier{}, nil, logger.Discard()).
		WithTimeProvider(fixedClock{now: now})

	_, err = uc.Execute(context.Background(), request("oil", at(9, 0)))
	require.NoError(t, err)

	assert.Equal(t, []string{"lock", "find", "create"}, store.calls)
}
