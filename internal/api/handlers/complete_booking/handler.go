package complete_booking

import (
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
	"github.com/theyool/booking-service/internal/api/middleware"
)

const msgInvalidBookingID = "invalid booking id"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing admin identity")
		return
	}

	result, err := h.service.Complete(r.Context(), bookingID, actor)
	if err != nil {
		if handlers.StatusForError(err) == http.StatusInternalServerError {
			h.logger.Error("POST /admin/bookings/{id}/complete - Failed: booking_id=%s, error=%v", bookingID, err)
		}
		handlers.RespondBookingError(w, err)
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/complete - Booking %s by %s: booking_id=%s", result.Status, actor, bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
