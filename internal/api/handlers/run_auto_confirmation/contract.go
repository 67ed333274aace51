package run_auto_confirmation

import (
	"context"

	autoConfirm "github.com/theyool/booking-service/internal/usecase/auto_confirm"
)

type AutoConfirmUseCase interface {
	Execute(ctx context.Context) (*autoConfirm.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
