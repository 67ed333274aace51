package create_blocked_time

import (
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
	"github.com/theyool/booking-service/internal/api/middleware"
	"github.com/theyool/booking-service/internal/service/blockedtimes/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateTime    = "invalid date or time, expected YYYY-MM-DD and HH:MM"
	msgInvalidBlock       = "invalid blocked time"
)

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

// Handle POST /api/v1/admin/blocked-times
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing admin identity")
		return
	}

	var req CreateBlockedTimeRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /admin/blocked-times - Invalid request body: %v", err)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidRequestBody, err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest(actor)
	if err != nil {
		h.logger.Warn("POST /admin/blocked-times - Failed to parse date/time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		if handlers.StatusForError(err) == http.StatusInternalServerError {
			h.logger.Error("POST /admin/blocked-times - Failed to create: %v", err)
		}
		handlers.RespondDomainError(w, err, msgInvalidBlock)
		return
	}

	h.logger.Info("POST /admin/blocked-times - Blocked time created by %s: id=%s", actor, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomain(result))
}
