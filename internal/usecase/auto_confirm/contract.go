package auto_confirm

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/infra/lock"
	"github.com/theyool/booking-service/internal/service/bookings/models"
)

// BookingRepository pending bookings source
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// Confirmer the lifecycle manager; the job confirms through the same gate as an admin
type Confirmer interface {
	Confirm(ctx context.Context, id uuid.UUID, actor string) (*models.BookingResponse, error)
}

// Locker lease against concurrent runs on other replicas
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (lock.Unlock, error)
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
