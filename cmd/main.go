package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/DINUSHA26/PrimeAuto/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/DINUSHA26/PrimeAuto/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/DINUSHA26/PrimeAuto/internal/api/handlers/get_availability"
	getBayScheduleHandler "github.com/DINUSHA26/PrimeAuto/internal/api/handlers/get_bay_schedule"
	getBookingHandler "github.com/DINUSHA26/PrimeAuto/internal/api/handlers/get_booking"
	listBookingsHandler "github.com/DINUSHA26/PrimeAuto/internal/api/handlers/list_bookings"
	updateBookingStatusHandler "github.com/DINUSHA26/PrimeAuto/internal/api/handlers/update_booking_status"
	"github.com/DINUSHA26/PrimeAuto/internal/api/middleware"
	"github.com/DINUSHA26/PrimeAuto/internal/config"
	"github.com/DINUSHA26/PrimeAuto/internal/domain"
	"github.com/DINUSHA26/PrimeAuto/internal/infra/events"
	bookingRepo "github.com/DINUSHA26/PrimeAuto/internal/infra/storage/booking"
	"github.com/DINUSHA26/PrimeAuto/internal/infra/storage/sqlitebooking"
	catalogClient "github.com/DINUSHA26/PrimeAuto/internal/integrations/catalog"
	"github.com/DINUSHA26/PrimeAuto/internal/integrations/notify"
	"github.com/DINUSHA26/PrimeAuto/internal/jobs/reminders"
	"github.com/DINUSHA26/PrimeAuto/internal/scheduler"
	bookingsService "github.com/DINUSHA26/PrimeAuto/internal/service/bookings"
	"github.com/DINUSHA26/PrimeAuto/internal/service/notifications"
	createBookingUC "github.com/DINUSHA26/PrimeAuto/internal/usecase/create_booking"
	getAvailabilityUC "github.com/DINUSHA26/PrimeAuto/internal/usecase/get_availability"
	"github.com/DINUSHA26/PrimeAuto/pkg/dbmetrics"
	"github.com/DINUSHA26/PrimeAuto/pkg/logger"
	"github.com/DINUSHA26/PrimeAuto/pkg/metrics"
	"github.com/DINUSHA26/PrimeAuto/pkg/tracing"
	"github.com/DINUSHA26/PrimeAuto/pkg/txmanager"
)

// bookingStore общий интерфейс PostgreSQL репозитория и SQLite хранилища
type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, cancelledAt time.Time) error
	LockDay(ctx context.Context, date time.Time) error
}

// txManager общий интерфейс менеджеров транзакций PostgreSQL и SQLite
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("PRIMEAUTO_CONFIG"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting PrimeAuto booking service...")
	log.Info("Configuration loaded from %s", configPath)

	schedulerCfg, err := cfg.Scheduler.ToSchedulerConfig()
	if err != nil {
		log.Fatal("Invalid scheduler configuration: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Трассировка (если включена)
	if cfg.Tracing.Enabled {
		shutdownTracing, err := tracing.Init(context.Background(), cfg.Metrics.ServiceName, cfg.Tracing.Environment, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatal("Failed to initialize tracing: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Error("Failed to flush traces: %v", err)
			}
		}()
		log.Info("Tracing enabled (endpoint=%s)", cfg.Tracing.Endpoint)
	}

	// Хранилище бронирований и менеджер транзакций
	var (
		store bookingStore
		txMgr txManager
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Metrics.Enabled {
			wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			log.Info("Database metrics collection started")
			store = bookingRepo.NewRepository(wrappedDB, schedulerCfg.Location)
			txMgr = txmanager.NewTransactionManager(wrappedDB)
		} else {
			store = bookingRepo.NewRepository(db, schedulerCfg.Location)
			txMgr = txmanager.NewTransactionManager(db)
		}

	case config.DriverSQLite:
		sqliteStore, err := sqlitebooking.Open(cfg.Database.DSN(), schedulerCfg.Location)
		if err != nil {
			log.Fatal("Failed to open sqlite store: %v", err)
		}
		defer sqliteStore.Close()

		log.Info("Using embedded sqlite store at %s", cfg.Database.SQLitePath)
		store = sqliteStore
		txMgr = sqlitebooking.NewTxManager(sqliteStore)
	}

	// Планировщик боксов
	bayScheduler, err := scheduler.New(schedulerCfg, store)
	if err != nil {
		log.Fatal("Failed to create scheduler: %v", err)
	}
	log.Info("Scheduler: %d bays, %s-%s, step %d min, tz=%s",
		schedulerCfg.TotalBays, schedulerCfg.OpeningTime, schedulerCfg.ClosingTime,
		schedulerCfg.SlotIntervalMinutes, schedulerCfg.Location)

	// Клиент каталога услуг
	catalog := catalogClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (url=%s, timeout=%ds)", cfg.Catalog.URL, cfg.Catalog.Timeout)

	// Уведомления: события в RabbitMQ, письма и SMS
	dispatcher := notifications.NewDispatcher(log).
		WithTimeout(time.Duration(cfg.Notifications.Timeout) * time.Second)

	if cfg.Events.Enabled {
		publisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		defer publisher.Close()
		dispatcher.WithPublisher(publisher)
		log.Info("Booking events published to exchange %s", cfg.Events.Exchange)
	}

	if cfg.Notifications.EmailEnabled() {
		emailSender, err := notify.NewEmailSender(notify.EmailConfig{
			APIKey:    cfg.Notifications.SendGridAPIKey,
			FromEmail: cfg.Notifications.FromEmail,
			FromName:  cfg.Notifications.FromName,
		})
		if err != nil {
			log.Fatal("Failed to configure email notifications: %v", err)
		}
		dispatcher.WithEmail(emailSender)
		log.Info("Email notifications enabled (from=%s)", cfg.Notifications.FromEmail)
	}

	if cfg.Notifications.SMSEnabled() {
		smsSender, err := notify.NewSMSSender(notify.SMSConfig{
			AccountSID: cfg.Notifications.TwilioAccountSID,
			AuthToken:  cfg.Notifications.TwilioAuthToken,
			FromNumber: cfg.Notifications.TwilioFromNumber,
		})
		if err != nil {
			log.Fatal("Failed to configure sms notifications: %v", err)
		}
		dispatcher.WithSMS(smsSender)
		log.Info("SMS notifications enabled")
	}

	// Инициализируем сервисы и use cases
	bookingSvc := bookingsService.NewService(store, bayScheduler, txMgr, dispatcher, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		store,
		bayScheduler,
		catalog,
		txMgr,
		dispatcher,
		metricsCollector,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(bayScheduler, catalog, log)

	// Напоминания о завтрашних визитах
	var reminderJob *reminders.Job
	if cfg.Jobs.RemindersEnabled {
		reminderJob = reminders.NewJob(store, bayScheduler, dispatcher, log)
		if err := reminderJob.Start(cfg.Jobs.RemindersSchedule, schedulerCfg.Location); err != nil {
			log.Fatal("Failed to schedule reminders: %v", err)
		}
	}

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, schedulerCfg.Location, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBaySchedule := getBayScheduleHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Статические пути регистрируются раньше /bookings/{bookingId}
	api.HandleFunc("/bookings/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/schedule/{date}", getBaySchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", cancelBooking.Handle).Methods(http.MethodDelete)

	// CORS для витрины и админки, recovery от паник в handlers
	handler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", middleware.HeaderRequestID}),
	)(gorillaHandlers.RecoveryHandler(gorillaHandlers.PrintRecoveryStack(true))(r))

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if reminderJob != nil {
		reminderJob.Stop(shutdownCtx)
		log.Info("Reminder job stopped")
	}

	// Дожидаемся фоновых уведомлений до закрытия брокера и базы
	dispatcher.Wait()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
