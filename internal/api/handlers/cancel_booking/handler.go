package cancel_booking

import (
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
	"github.com/theyool/booking-service/internal/api/middleware"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
)

// Handler admin cancellation
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

// Handle POST /api/v1/admin/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing admin identity")
		return
	}

	var req AdminCancelRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeAndValidate(r, &req); err != nil {
			h.logger.Warn("POST /admin/bookings/{id}/cancel - Invalid request body: %v", err)
			handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidRequestBody, err.Error())
			return
		}
	}

	result, err := h.service.Cancel(r.Context(), bookingID, actor, req.Reason)
	if err != nil {
		if handlers.StatusForError(err) == http.StatusInternalServerError {
			h.logger.Error("POST /admin/bookings/{id}/cancel - Failed: booking_id=%s, error=%v", bookingID, err)
		}
		handlers.RespondBookingError(w, err)
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/cancel - Booking cancelled by %s: booking_id=%s", actor, bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CustomerHandler cancellation by the customer who made the booking
type CustomerHandler struct {
	service BookingService
	logger  Logger
}

func NewCustomerHandler(service BookingService, logger Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/cancel
func (h *CustomerHandler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CustomerCancelRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidRequestBody, err.Error())
		return
	}

	result, err := h.service.CancelByCustomer(r.Context(), bookingID, req.Phone, req.Reason)
	if err != nil {
		if handlers.StatusForError(err) == http.StatusInternalServerError {
			h.logger.Error("POST /bookings/{id}/cancel - Failed: booking_id=%s, error=%v", bookingID, err)
		}
		handlers.RespondBookingError(w, err)
		return
	}

	h.logger.Info("POST /bookings/{id}/cancel - Booking cancelled by customer: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, CancelResponse{ID: result.ID.String(), Status: result.Status})
}
