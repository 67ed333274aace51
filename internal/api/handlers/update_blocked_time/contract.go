package update_blocked_time

import (
	"context"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
)

type BlockedTimeService interface {
	UpdateReason(ctx context.Context, id uuid.UUID, reason *string) (*domain.BlockedTime, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
