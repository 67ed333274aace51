package update_blocked_time

import (
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
	"github.com/theyool/booking-service/internal/service/blockedtimes/models"
)

const (
	msgInvalidID          = "invalid blocked time id"
	msgInvalidRequestBody = "invalid request body"
)

// UpdateBlockedTimeRequest only the reason is editable; a null reason clears it
type UpdateBlockedTimeRequest struct {
	Reason *string `json:"reason"`
}

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

// Handle PATCH /api/v1/admin/blocked-times/{blockedTimeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "blockedTimeId")
	if err != nil {
		h.logger.Warn("PATCH /admin/blocked-times/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpdateBlockedTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/blocked-times/{id} - Invalid request body: %v", err)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidRequestBody, err.Error())
		return
	}

	result, err := h.service.UpdateReason(r.Context(), id, req.Reason)
	if err != nil {
		if handlers.StatusForError(err) == http.StatusInternalServerError {
			h.logger.Error("PATCH /admin/blocked-times/{id} - Failed: id=%s, error=%v", id, err)
		}
		handlers.RespondDomainError(w, err, "blocked time update failed")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomain(result))
}
