package booking_stats

import (
	"context"

	"github.com/theyool/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	Stats(ctx context.Context) (*models.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
