package list_blocked_times

import (
	"context"

	"github.com/theyool/booking-service/internal/domain"
)

type BlockedTimeService interface {
	List(ctx context.Context, filter domain.BlockedTimeFilter) ([]*domain.BlockedTime, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
