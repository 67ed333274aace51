package conflicts

import (
	"context"

	"github.com/theyool/booking-service/internal/domain"
)

// BookingRepository read side of the booking store
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}
