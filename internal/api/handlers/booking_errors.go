package handlers

import (
	"errors"
	"net/http"

	"github.com/theyool/booking-service/internal/service/bookings"
)

// RespondBookingError maps lifecycle errors of the bookings service
func RespondBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		RespondNotFound(w, "booking not found")
	case errors.Is(err, bookings.ErrSlotTaken):
		RespondErrorWithDetails(w, http.StatusConflict, "this time slot is no longer available", err.Error())
	case errors.Is(err, bookings.ErrNotStarted):
		RespondErrorWithDetails(w, http.StatusUnprocessableEntity, "the appointment has not started yet", err.Error())
	case errors.Is(err, bookings.ErrInvalidTransition):
		RespondErrorWithDetails(w, http.StatusConflict, "the booking status does not allow this change", err.Error())
	case errors.Is(err, bookings.ErrInvalidInput):
		RespondErrorWithDetails(w, http.StatusBadRequest, "invalid request", err.Error())
	default:
		RespondInternalError(w)
	}
}
