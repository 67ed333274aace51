package auto_confirm

import "github.com/theyool/booking-service/internal/domain"

var (
	// ErrAlreadyRunning another run holds the lease
	ErrAlreadyRunning = domain.NewError(domain.ErrConflict, "auto_confirm: a run is already in progress")

	// ErrInternal the pending bookings could not be read
	ErrInternal = domain.NewError(domain.ErrStore, "auto_confirm: internal error")
)
