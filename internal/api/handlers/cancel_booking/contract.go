package cancel_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	Cancel(ctx context.Context, id uuid.UUID, actor, reason string) (*models.BookingResponse, error)
	CancelByCustomer(ctx context.Context, id uuid.UUID, phone, reason string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
