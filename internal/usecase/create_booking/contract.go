package create_booking

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
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// BlockedTimeChecker blocked-time registry
type BlockedTimeChecker interface {
	IsSlotBlocked(ctx context.Context, date time.Time, t types.TimeString, ch domain.Channel) (bool, error)
}

// ConflictDetector active-slot check
type ConflictDetector interface {
	ConflictExists(ctx context.Context, ch domain.Channel, date time.Time, t types.TimeString, excludeID *uuid.UUID) (bool, error)
}

// TransactionManager transaction runner
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

// TimeProvider current time source (replaced in tests)
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
