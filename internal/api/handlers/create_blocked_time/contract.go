package create_blocked_time

import (
	"context"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/service/blockedtimes/models"
)

type BlockedTimeService interface {
	Create(ctx context.Context, req *models.CreateBlockedTimeRequest) (*domain.BlockedTime, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
