package run_auto_confirmation

import (
	"errors"
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
	autoConfirm "github.com/theyool/booking-service/internal/usecase/auto_confirm"
)

const msgAlreadyRunning = "auto-confirmation is already running"

type Handler struct {
	useCase AutoConfirmUseCase
	logger  Logger
}

func NewHandler(useCase AutoConfirmUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET|POST /api/v1/cron/auto-confirm-bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, autoConfirm.ErrAlreadyRunning):
			h.logger.Warn("%s /cron/auto-confirm-bookings - Already running", r.Method)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyRunning)
		default:
			h.logger.Error("%s /cron/auto-confirm-bookings - Run failed: %v", r.Method, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResult(result))
}
