package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
	"github.com/theyool/booking-service/pkg/types"
)

// BookingRepository booking store
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error
	UpdateDetails(ctx context.Context, id uuid.UUID, update domain.BookingDetailsUpdate) (*domain.Booking, error)
	Stats(ctx context.Context, todayStart, weekStart time.Time) (*domain.BookingStats, error)
}

// ConflictDetector recheck used when confirming
type ConflictDetector interface {
	ConfirmedConflictExists(ctx context.Context, ch domain.Channel, date time.Time, t types.TimeString, excludeID *uuid.UUID) (bool, error)
}

// TransactionManager runs fn in one transaction, context-propagated
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher notification events
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.BookingEvent) error
}

// Metrics transition counters
type Metrics interface {
	IncBookingTransition(to string)
}

// TimeProvider current time source
type TimeProvider interface {
	Now() time.Time
}

// Logger logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider wall clock
type RealTimeProvider struct{}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
