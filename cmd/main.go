package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/theyool/booking-service/internal/api"
	"github.com/theyool/booking-service/internal/api/middleware"
	"github.com/theyool/booking-service/internal/config"
	"github.com/theyool/booking-service/internal/infra/lock"
	blockedTimeRepo "github.com/theyool/booking-service/internal/infra/storage/blockedtime"
	bookingRepo "github.com/theyool/booking-service/internal/infra/storage/booking"
	"github.com/theyool/booking-service/internal/infra/storage/memstore"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
	blockedTimesService "github.com/theyool/booking-service/internal/service/blockedtimes"
	bookingsService "github.com/theyool/booking-service/internal/service/bookings"
	"github.com/theyool/booking-service/internal/service/conflicts"
	autoConfirmUC "github.com/theyool/booking-service/internal/usecase/auto_confirm"
	createBookingUC "github.com/theyool/booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/theyool/booking-service/internal/usecase/get_available_slots"
	sendRemindersUC "github.com/theyool/booking-service/internal/usecase/send_reminders"
	"github.com/theyool/booking-service/internal/worker"
	"github.com/theyool/booking-service/pkg/dbmetrics"
	"github.com/theyool/booking-service/pkg/logger"
	"github.com/theyool/booking-service/pkg/metrics"
	"github.com/theyool/booking-service/pkg/txmanager"
)

// bookingStore both the Postgres repository and the in-memory one
type bookingStore interface {
	createBookingUC.BookingRepository
	bookingsService.BookingRepository
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (lock.Unlock, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event eventbus.BookingEvent) error
}

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-service...")

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid timezone: %v", err)
	}

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// STORAGE
	// ============================================================

	var (
		bookings     bookingStore
		blockedTimes blockedTimesService.BlockedTimeRepository
		txMgr        txManager
	)

	if cfg.Database.InMemory {
		store := memstore.New()
		bookings = store.Bookings()
		blockedTimes = store.BlockedTimes()
		txMgr = store.TxManager()
		log.Warn("Using the in-memory store; data is lost on restart")
	} else {
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		bookings = bookingRepo.NewRepository(wrappedDB)
		blockedTimes = blockedTimeRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB,
			txmanager.WithRetry(
				cfg.StoreRetry.MaxRetries,
				time.Duration(cfg.StoreRetry.InitialInterval)*time.Millisecond,
				time.Duration(cfg.StoreRetry.MaxInterval)*time.Millisecond,
			),
			txmanager.WithMetrics(metricsCollector),
		)
	}

	// ============================================================
	// INTEGRATIONS
	// ============================================================

	var publisher eventPublisher = eventbus.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		amqpPublisher := eventbus.NewPublisher(cfg.RabbitMQ.URL, log,
			eventbus.WithDialTimeout(time.Duration(cfg.RabbitMQ.DialTimeout)*time.Second),
			eventbus.WithRetryMaxInterval(time.Duration(cfg.RabbitMQ.RetryMaxInterval)*time.Second),
		)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Booking events are published to RabbitMQ")
	}

	var jobLocker locker = lock.NewLocalLocker()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable, jobs will run without a shared lease until it is: %v", err)
		}
		cancel()

		jobLocker = lock.NewRedisLocker(redisClient, cfg.Redis.KeyPrefix)
		log.Info("Job leases are held in Redis (addr=%s)", cfg.Redis.Addr)
	}

	// ============================================================
	// SERVICES AND USE CASES
	// ============================================================

	detector := conflicts.NewDetector(bookings)
	blockedSvc := blockedTimesService.NewService(blockedTimes, log)
	bookingSvc := bookingsService.NewService(bookings, detector, txMgr, publisher, metricsCollector, location, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookings,
		blockedSvc,
		detector,
		txMgr,
		publisher,
		metricsCollector,
		createBookingUC.Settings{Location: location, MaxAdvanceDays: cfg.Scheduling.MaxAdvanceDays},
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(blockedSvc, detector, log)
	autoConfirmUseCase := autoConfirmUC.NewUseCase(
		bookings,
		bookingSvc,
		jobLocker,
		metricsCollector,
		autoConfirmUC.Settings{
			Threshold: cfg.Scheduling.AutoConfirmAfterDuration(),
			BatchSize: cfg.Scheduling.AutoConfirmBatchSize,
			LockTTL:   cfg.Scheduling.JobLockTTLDuration(),
		},
		log,
	)
	sendRemindersUseCase := sendRemindersUC.NewUseCase(bookings, publisher, metricsCollector, location, log)

	// ============================================================
	// HTTP
	// ============================================================

	deps := api.Dependencies{
		CreateBooking:     createBookingUseCase,
		GetAvailableSlots: getAvailableSlotsUseCase,
		AutoConfirm:       autoConfirmUseCase,
		SendReminders:     sendRemindersUseCase,
		Bookings:          bookingSvc,
		BlockedTimes:      blockedSvc,
		AdminJWTSecret:    cfg.Auth.AdminJWTSecret,
		CronSecret:        cfg.Auth.CronSecret,
		Metrics:           metricsCollector,
		MetricsPath:       cfg.Metrics.Path,
		Logger:            log,
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:      rate.Limit(cfg.RateLimit.RequestsPerMinute / 60),
			Burst:     cfg.RateLimit.Burst,
			ClientTTL: time.Duration(cfg.RateLimit.ClientTTL) * time.Second,
		}, log)
	}
	if cfg.Auth.CronSecret == "" {
		log.Warn("CRON_SECRET is not set; cron endpoints will answer 500")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// ============================================================
	// SCHEDULER
	// ============================================================

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	schedulerDone := make(chan struct{})

	scheduler := worker.NewScheduler(location, cfg.Scheduling.JobLockTTLDuration(), log)
	if cfg.Scheduling.AutoConfirmEnabled {
		if err := scheduler.AddAutoConfirm(cfg.Scheduling.AutoConfirmSchedule, autoConfirmUseCase); err != nil {
			log.Fatal("%v", err)
		}
	}
	if cfg.Scheduling.RemindersEnabled {
		if err := scheduler.AddReminders(cfg.Scheduling.RemindersSchedule, sendRemindersUseCase); err != nil {
			log.Fatal("%v", err)
		}
	}
	go func() {
		scheduler.Start(schedulerCtx)
		close(schedulerDone)
	}()

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

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

	stopScheduler()
	select {
	case <-schedulerDone:
	case <-shutdownCtx.Done():
		log.Warn("Scheduler did not stop in time")
	}

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
