package get_available_slots

import "github.com/theyool/booking-service/internal/domain"

var (
	// ErrInvalidInput missing or malformed date
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "get_available_slots: invalid input data")

	// ErrInternal store failure
	ErrInternal = domain.NewError(domain.ErrStore, "get_available_slots: internal error")
)
