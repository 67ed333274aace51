package bookings

import "github.com/theyool/booking-service/internal/domain"

var (
	// ErrBookingNotFound no booking with the id, or the customer's phone does not match it
	ErrBookingNotFound = domain.NewError(domain.ErrNotFound, "bookings: booking not found")

	// ErrSlotTaken another confirmed booking already holds the slot
	ErrSlotTaken = domain.NewError(domain.ErrConflict, "bookings: slot is no longer available")

	// ErrInvalidTransition the current status does not allow the requested change
	ErrInvalidTransition = domain.NewError(domain.ErrInvalidTransition, "bookings: transition not allowed from current status")

	// ErrNotStarted completion requested before the appointment start
	ErrNotStarted = domain.NewError(domain.ErrInvalidTransition, "bookings: appointment has not started yet")

	// ErrInvalidInput malformed request data
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "bookings: invalid input data")

	// ErrInternal store failure
	ErrInternal = domain.NewError(domain.ErrStore, "bookings: internal error")
)
