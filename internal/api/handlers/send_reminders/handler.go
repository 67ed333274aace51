package send_reminders

import (
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
)

type Handler struct {
	useCase SendRemindersUseCase
	logger  Logger
}

func NewHandler(useCase SendRemindersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET|POST /api/v1/cron/send-reminders
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("%s /cron/send-reminders - Run failed: %v", r.Method, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResult(result))
}
