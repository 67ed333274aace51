package update_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	UpdateDetails(ctx context.Context, id uuid.UUID, req *models.UpdateDetailsRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
