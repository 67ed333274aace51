package get_available_slots

import (
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
)

const (
	msgMissingParams = "date and type are required"
	msgInvalidDate   = "invalid date format, expected YYYY-MM-DD"
	msgInvalidParams = "invalid consultation type or office"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: date (YYYY-MM-DD), type (visit|video), office (visit only)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateStr, typeStr, officeStr := q.Get("date"), q.Get("type"), q.Get("office")

	if dateStr == "" || typeStr == "" {
		h.logger.Warn("GET /available-slots - Missing parameters: date=%q type=%q", dateStr, typeStr)
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, typeStr, officeStr)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.StatusForError(err) == http.StatusInternalServerError {
			h.logger.Error("GET /available-slots - Failed to get slots: date=%s type=%s office=%s error=%v",
				dateStr, typeStr, officeStr, err)
		} else {
			h.logger.Warn("GET /available-slots - Rejected: %v", err)
		}
		handlers.RespondDomainError(w, err, msgInvalidParams)
		return
	}

	h.logger.Info("GET /available-slots - Slots retrieved: date=%s type=%s office=%s slots=%d",
		dateStr, typeStr, officeStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
