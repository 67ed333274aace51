package send_reminders

import (
	"context"
	"time"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
)

// BookingRepository confirmed bookings source
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// EventPublisher reminder events
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.BookingEvent) error
}

// Metrics job counters
type Metrics interface {
	IncJobOutcome(job, outcome string)
	ObserveJobDuration(job string, duration time.Duration)
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
