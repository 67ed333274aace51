package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/theyool/booking-service/internal/api/handlers/booking_stats"
	"github.com/theyool/booking-service/internal/api/handlers/cancel_booking"
	"github.com/theyool/booking-service/internal/api/handlers/complete_booking"
	"github.com/theyool/booking-service/internal/api/handlers/confirm_booking"
	"github.com/theyool/booking-service/internal/api/handlers/create_blocked_time"
	"github.com/theyool/booking-service/internal/api/handlers/create_booking"
	"github.com/theyool/booking-service/internal/api/handlers/delete_blocked_time"
	"github.com/theyool/booking-service/internal/api/handlers/get_available_slots"
	"github.com/theyool/booking-service/internal/api/handlers/get_booking"
	"github.com/theyool/booking-service/internal/api/handlers/list_blocked_times"
	"github.com/theyool/booking-service/internal/api/handlers/list_bookings"
	"github.com/theyool/booking-service/internal/api/handlers/run_auto_confirmation"
	"github.com/theyool/booking-service/internal/api/handlers/send_reminders"
	"github.com/theyool/booking-service/internal/api/handlers/update_blocked_time"
	"github.com/theyool/booking-service/internal/api/handlers/update_booking"
	"github.com/theyool/booking-service/internal/api/middleware"
	"github.com/theyool/booking-service/pkg/metrics"
)

// BookingService everything the booking handlers need from the lifecycle manager
type BookingService interface {
	get_booking.BookingService
	list_bookings.BookingService
	booking_stats.BookingService
	update_booking.BookingService
	confirm_booking.BookingService
	complete_booking.BookingService
	cancel_booking.BookingService
}

// BlockedTimeService everything the blocked time handlers need from the registry
type BlockedTimeService interface {
	create_blocked_time.BlockedTimeService
	list_blocked_times.BlockedTimeService
	update_blocked_time.BlockedTimeService
	delete_blocked_time.BlockedTimeService
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dependencies handlers' collaborators and transport settings
type Dependencies struct {
	CreateBooking     create_booking.CreateBookingUseCase
	GetAvailableSlots get_available_slots.GetAvailableSlotsUseCase
	AutoConfirm       run_auto_confirmation.AutoConfirmUseCase
	SendReminders     send_reminders.SendRemindersUseCase
	Bookings          BookingService
	BlockedTimes      BlockedTimeService

	AdminJWTSecret string
	CronSecret     string

	// RateLimiter guards public writes; nil disables it
	RateLimiter *middleware.RateLimiter

	// Metrics nil disables the HTTP metrics middleware and endpoint
	Metrics     *metrics.Metrics
	MetricsPath string

	Logger Logger
}

// NewRouter registers every route
func NewRouter(d Dependencies) *mux.Router {
	r := mux.NewRouter()
	log := d.Logger

	if d.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.Metrics))
		r.Handle(d.MetricsPath, d.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/available-slots",
		get_available_slots.NewHandler(d.GetAvailableSlots, log).Handle).Methods(http.MethodGet)

	createBooking := http.Handler(http.HandlerFunc(create_booking.NewHandler(d.CreateBooking, log).Handle))
	if d.RateLimiter != nil {
		createBooking = d.RateLimiter.RateLimit(createBooking)
	}
	api.Handle("/bookings", createBooking).Methods(http.MethodPost)

	customerCancel := http.Handler(http.HandlerFunc(cancel_booking.NewCustomerHandler(d.Bookings, log).Handle))
	if d.RateLimiter != nil {
		customerCancel = d.RateLimiter.RateLimit(customerCancel)
	}
	api.Handle("/bookings/{bookingId}/cancel", customerCancel).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (bearer JWT)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(d.AdminJWTSecret, log))

	// stats before {bookingId} so it is not parsed as an id
	admin.HandleFunc("/bookings/stats", booking_stats.NewHandler(d.Bookings, log).Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", list_bookings.NewHandler(d.Bookings, log).Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", get_booking.NewHandler(d.Bookings, log).Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", update_booking.NewHandler(d.Bookings, log).Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId}/confirm", confirm_booking.NewHandler(d.Bookings, log).Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/cancel", cancel_booking.NewHandler(d.Bookings, log).Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/complete", complete_booking.NewHandler(d.Bookings, log).Handle).Methods(http.MethodPost)

	admin.HandleFunc("/blocked-times", create_blocked_time.NewHandler(d.BlockedTimes, log).Handle).Methods(http.MethodPost)
	admin.HandleFunc("/blocked-times", list_blocked_times.NewHandler(d.BlockedTimes, log).Handle).Methods(http.MethodGet)
	admin.HandleFunc("/blocked-times/{blockedTimeId}", update_blocked_time.NewHandler(d.BlockedTimes, log).Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/blocked-times/{blockedTimeId}", delete_blocked_time.NewHandler(d.BlockedTimes, log).Handle).Methods(http.MethodDelete)

	// ============================================================
	// CRON ROUTES (bearer cron secret; GET for schedulers, POST for manual runs)
	// ============================================================

	cron := api.PathPrefix("/cron").Subrouter()
	cron.Use(middleware.CronAuth(d.CronSecret, log))

	cron.HandleFunc("/auto-confirm-bookings",
		run_auto_confirmation.NewHandler(d.AutoConfirm, log).Handle).Methods(http.MethodGet, http.MethodPost)
	cron.HandleFunc("/send-reminders",
		send_reminders.NewHandler(d.SendReminders, log).Handle).Methods(http.MethodGet, http.MethodPost)

	return r
}
