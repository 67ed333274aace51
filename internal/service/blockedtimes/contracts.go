package blockedtimes

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
)

// BlockedTimeRepository storage of blocked times
type BlockedTimeRepository interface {
	Create(ctx context.Context, bt *domain.BlockedTime) (*domain.BlockedTime, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BlockedTime, error)
	List(ctx context.Context, filter domain.BlockedTimeFilter) ([]*domain.BlockedTime, error)
	ListForDate(ctx context.Context, date time.Time, ch domain.Channel) ([]*domain.BlockedTime, error)
	UpdateReason(ctx context.Context, id uuid.UUID, reason *string) (*domain.BlockedTime, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Logger printf-style logger
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
