package create_booking

import "github.com/theyool/booking-service/internal/domain"

var (
	// ErrInvalidInput request fields failed validation
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "create_booking: invalid input data")

	// ErrPastDate the date (or today's slot) has already passed
	ErrPastDate = domain.NewError(domain.ErrValidation, "create_booking: date is in the past")

	// ErrDateTooFarInFuture the date is beyond the advance booking window
	ErrDateTooFarInFuture = domain.NewError(domain.ErrValidation, "create_booking: date is too far in the future")

	// ErrNotBusinessDay weekends are closed
	ErrNotBusinessDay = domain.NewError(domain.ErrValidation, "create_booking: not a business day")

	// ErrInvalidTimeSlot the time is not a slot start of the day
	ErrInvalidTimeSlot = domain.NewError(domain.ErrValidation, "create_booking: invalid time slot")

	// ErrSlotBlocked an administrator blocked the date or time
	ErrSlotBlocked = domain.NewError(domain.ErrValidation, "create_booking: slot is blocked")

	// ErrSlotNotAvailable another active booking holds the slot
	ErrSlotNotAvailable = domain.NewError(domain.ErrConflict, "create_booking: slot is no longer available")

	// ErrInternal store failure
	ErrInternal = domain.NewError(domain.ErrStore, "create_booking: internal error")
)
