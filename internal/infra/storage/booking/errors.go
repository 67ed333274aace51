package booking

import "github.com/theyool/booking-service/internal/domain"

var (
	// ErrBookingNotFound no row with the given id
	ErrBookingNotFound = domain.NewError(domain.ErrNotFound, "booking.repository: booking not found")

	// ErrSlotNotAvailable unique index on the active slot rejected the insert
	ErrSlotNotAvailable = domain.NewError(domain.ErrConflict, "booking.repository: slot not available")

	// ErrStatusChanged the row was no longer in the expected status
	ErrStatusChanged = domain.NewError(domain.ErrInvalidTransition, "booking.repository: booking status changed concurrently")

	ErrBuildQuery = domain.NewError(domain.ErrStore, "booking.repository: failed to build query")
	ErrExecQuery  = domain.NewError(domain.ErrStore, "booking.repository: failed to execute query")
	ErrScanRow    = domain.NewError(domain.ErrStore, "booking.repository: failed to scan row")
)
