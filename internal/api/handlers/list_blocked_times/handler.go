package list_blocked_times

import (
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/service/blockedtimes/models"
	"github.com/theyool/booking-service/pkg/ptr"
)

const msgInvalidParams = "invalid query parameters"

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

// Handle GET /api/v1/admin/blocked-times
// Query params: date_from, date_to, office (all optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		filter domain.BlockedTimeFilter
		err    error
	)
	if filter.DateFrom, err = handlers.ParseOptionalDate(q.Get("date_from")); err != nil {
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidParams, "date_from: "+err.Error())
		return
	}
	if filter.DateTo, err = handlers.ParseOptionalDate(q.Get("date_to")); err != nil {
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidParams, "date_to: "+err.Error())
		return
	}
	if o := q.Get("office"); o != "" {
		filter.Office = ptr.Ptr(domain.OfficeLocation(o))
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /admin/blocked-times - Failed to list: %v", err)
		handlers.RespondDomainError(w, err, msgInvalidParams)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainList(result))
}
