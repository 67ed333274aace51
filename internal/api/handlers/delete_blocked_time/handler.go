package delete_blocked_time

import (
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
)

const msgInvalidID = "invalid blocked time id"

type Handler struct {
	service BlockedTimeService
	logger  Logger
}

func NewHandler(service BlockedTimeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/blocked-times/{blockedTimeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "blockedTimeId")
	if err != nil {
		h.logger.Warn("DELETE /admin/blocked-times/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if handlers.StatusForError(err) == http.StatusInternalServerError {
			h.logger.Error("DELETE /admin/blocked-times/{id} - Failed: id=%s, error=%v", id, err)
		}
		handlers.RespondDomainError(w, err, "blocked time not found")
		return
	}

	h.logger.Info("DELETE /admin/blocked-times/{id} - Deleted: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
