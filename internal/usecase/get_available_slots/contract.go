package get_available_slots

import (
	"context"
	"time"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/types"
)

// BlockedTimeLister blocked-time registry
type BlockedTimeLister interface {
	ListForDate(ctx context.Context, date time.Time, ch domain.Channel) ([]*domain.BlockedTime, error)
}

// ConflictDetector batch occupancy lookup
type ConflictDetector interface {
	OccupiedSlots(ctx context.Context, ch domain.Channel, date time.Time) (map[types.TimeString]struct{}, error)
}

// Logger logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
